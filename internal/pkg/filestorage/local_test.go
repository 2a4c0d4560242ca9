package filestorage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080", "secret")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return ls
}

func TestLocalStorage_UploadOpenRemove(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	if err := ls.Upload(ctx, "attachments", "42/resume/a.pdf", strings.NewReader("pdf bytes")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := ls.Open("attachments", "42/resume/a.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("content = %q", content)
	}

	if err := ls.Remove(ctx, "attachments", []string{"42/resume/a.pdf"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := ls.Open("attachments", "42/resume/a.pdf"); err == nil {
		t.Error("Open succeeded after Remove")
	}
}

func TestLocalStorage_RemoveMissingIsIdempotent(t *testing.T) {
	ls := newTestStorage(t)
	if err := ls.Remove(context.Background(), "attachments", []string{"no/such/object.pdf"}); err != nil {
		t.Errorf("Remove of a missing object should succeed, got %v", err)
	}
}

func TestLocalStorage_List(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	objects, err := ls.List(ctx, "attachments")
	if err != nil {
		t.Fatalf("List on empty bucket: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("empty bucket listed %v", objects)
	}

	before := time.Now().Add(-time.Second)
	for _, p := range []string{"1/resume/a.pdf", "1/cv/b.pdf", "2/other/c.bin"} {
		if err := ls.Upload(ctx, "attachments", p, strings.NewReader("x")); err != nil {
			t.Fatalf("Upload %s: %v", p, err)
		}
	}

	objects, err = ls.List(ctx, "attachments")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 3 {
		t.Errorf("listed %d objects, want 3: %v", len(objects), objects)
	}
	found := make(map[string]bool)
	for _, obj := range objects {
		found[obj.Path] = true
		if obj.ModTime.Before(before) {
			t.Errorf("object %s has stale mod time %v", obj.Path, obj.ModTime)
		}
	}
	if !found["1/resume/a.pdf"] || !found["1/cv/b.pdf"] || !found["2/other/c.bin"] {
		t.Errorf("listing missing expected paths: %v", objects)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls := newTestStorage(t)
	ctx := context.Background()

	if err := ls.Upload(ctx, "attachments", "../escape.txt", strings.NewReader("x")); err == nil {
		t.Error("Upload accepted a traversal path")
	}
	if _, err := ls.Open("attachments", "../../etc/passwd"); err == nil {
		t.Error("Open accepted a traversal path")
	}
	if err := ls.Remove(ctx, "attachments", []string{"../escape.txt"}); err == nil {
		t.Error("Remove accepted a traversal path")
	}
}
