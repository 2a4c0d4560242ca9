package models

import "testing"

func TestApplicationStatus_IsValid(t *testing.T) {
	for _, s := range ApplicationStatuses {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}

	for _, s := range []ApplicationStatus{"", "内定済", "offer", "応募"} {
		if s.IsValid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestDocumentResult_IsValid(t *testing.T) {
	for _, r := range []DocumentResult{DocumentPassed, DocumentFailed, DocumentPending, DocumentBlank} {
		if !r.IsValid() {
			t.Errorf("result %q should be valid", r)
		}
	}

	for _, r := range []DocumentResult{"保留", "passed"} {
		if r.IsValid() {
			t.Errorf("result %q should be invalid", r)
		}
	}
}

func TestAttachmentCategory_IsValid(t *testing.T) {
	for _, c := range []AttachmentCategory{CategoryResume, CategoryCV, CategoryPortfolio, CategoryOther} {
		if !c.IsValid() {
			t.Errorf("category %q should be valid", c)
		}
	}

	for _, c := range []AttachmentCategory{"", "photo", "Resume"} {
		if c.IsValid() {
			t.Errorf("category %q should be invalid", c)
		}
	}
}
