package filestorage

import (
	"strings"
	"testing"
)

func TestGenerateObjectPath_Shape(t *testing.T) {
	p := GenerateObjectPath(42, "resume", "履歴書.PDF")

	if !strings.HasPrefix(p, "42/resume/") {
		t.Errorf("path %q should be rooted at 42/resume/", p)
	}
	if !strings.HasSuffix(p, ".pdf") {
		t.Errorf("path %q should carry the lowercased extension", p)
	}
	if strings.Contains(p, "履歴書") {
		t.Errorf("path %q leaks the original filename", p)
	}
}

func TestGenerateObjectPath_NoExtension(t *testing.T) {
	p := GenerateObjectPath(1, "other", "README")
	if !strings.HasSuffix(p, ".bin") {
		t.Errorf("path %q should fall back to .bin", p)
	}
}

func TestGenerateObjectPath_TraversalNameNeutralized(t *testing.T) {
	p := GenerateObjectPath(1, "resume", "../../etc/passwd")
	if strings.Contains(p, "..") {
		t.Errorf("path %q contains a traversal sequence", p)
	}
	if !strings.HasPrefix(p, "1/resume/") {
		t.Errorf("path %q escaped its application/category root", p)
	}
}

func TestGenerateObjectPath_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		p := GenerateObjectPath(1, "resume", "a.pdf")
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate path generated: %q", p)
		}
		seen[p] = struct{}{}
	}
}
