package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/db"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
	"github.com/ymori/careertrack/internal/pkg/filestorage"
)

// fakeOwnerTx stands in for the owner-pinned transaction runner; it invokes
// the function directly and counts how often a transaction was requested.
type fakeOwnerTx struct {
	calls int
}

func (f *fakeOwnerTx) WithOwner(ctx context.Context, profileID int64, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type flagChange struct {
	applicationID int64
	column        string
	value         bool
}

// fakeAppStore serves one owned application and records every mutation
type fakeAppStore struct {
	app     *models.Application
	flags   []flagChange
	creates int
	updates int
	deletes int
}

func (f *fakeAppStore) GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Application, error) {
	if f.app != nil && f.app.ID == id && f.app.StudentID == studentID {
		found := *f.app
		return &found, nil
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (f *fakeAppStore) ListByStudent(ctx context.Context, studentID int64, filter *dto.ApplicationFilterRequest) ([]dto.ApplicationResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeAppStore) WithTx(tx pgx.Tx) repositories.ApplicationTxQueries { return f }

func (f *fakeAppStore) Create(ctx context.Context, studentID int64, req *dto.CreateApplicationRequest) (*models.Application, error) {
	f.creates++
	return &models.Application{
		ID:        1,
		StudentID: studentID,
		Company:   req.Company,
		Position:  req.Position,
		Status:    models.StatusPreApplication,
	}, nil
}

func (f *fakeAppStore) UpdateOwned(ctx context.Context, id, studentID int64, req *dto.UpdateApplicationRequest) (*models.Application, error) {
	if f.app == nil || f.app.ID != id || f.app.StudentID != studentID {
		return nil, apperrors.ErrApplicationNotFound
	}
	f.updates++
	updated := *f.app
	updated.Status = models.ApplicationStatus(req.Status)
	return &updated, nil
}

func (f *fakeAppStore) DeleteOwned(ctx context.Context, id, studentID int64) error {
	if f.app == nil || f.app.ID != id || f.app.StudentID != studentID {
		return apperrors.ErrApplicationNotFound
	}
	f.deletes++
	return nil
}

func (f *fakeAppStore) SetReadinessFlag(ctx context.Context, id int64, column string, value bool) error {
	f.flags = append(f.flags, flagChange{id, column, value})
	return nil
}

// fakeAttStore serves one attachment and records row writes
type fakeAttStore struct {
	att       *models.Attachment
	owner     int64
	count     int64
	remaining int64
	created   int
	deleted   []int64
}

func (f *fakeAttStore) GetByIDForStudent(ctx context.Context, id, studentID int64) (*models.Attachment, error) {
	if f.att != nil && f.att.ID == id && f.owner == studentID {
		found := *f.att
		return &found, nil
	}
	return nil, apperrors.ErrAttachmentNotFound
}

func (f *fakeAttStore) CountByApplication(ctx context.Context, applicationID int64) (int64, error) {
	return f.count, nil
}

func (f *fakeAttStore) ListByApplication(ctx context.Context, applicationID int64) ([]models.Attachment, error) {
	return nil, nil
}

func (f *fakeAttStore) WithTx(tx pgx.Tx) repositories.AttachmentTxQueries { return f }

func (f *fakeAttStore) Create(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	f.created++
	stored := *att
	stored.ID = 99
	return &stored, nil
}

func (f *fakeAttStore) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAttStore) CountByApplicationAndCategory(ctx context.Context, applicationID int64, category models.AttachmentCategory) (int64, error) {
	return f.remaining, nil
}

// fakeObjectStore records bucket writes and removals
type fakeObjectStore struct {
	uploads   []string
	removed   []string
	removeErr error
}

func (f *fakeObjectStore) Upload(ctx context.Context, bucket, path string, r io.Reader) error {
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, paths...)
	return nil
}

func (f *fakeObjectStore) CreateSignedURL(bucket, path string, ttl time.Duration) (string, error) {
	return "https://files.local/" + path, nil
}

func (f *fakeObjectStore) List(ctx context.Context, bucket string) ([]filestorage.ObjectInfo, error) {
	return nil, nil
}

type fakeStatsCache struct {
	deletes int
}

func (f *fakeStatsCache) Delete(ctx context.Context, keys ...string) error {
	f.deletes++
	return nil
}

type attachmentFixture struct {
	service *attachmentServiceImpl
	runner  *fakeOwnerTx
	atts    *fakeAttStore
	apps    *fakeAppStore
	storage *fakeObjectStore
}

func newAttachmentFixture(atts *fakeAttStore, apps *fakeAppStore) *attachmentFixture {
	runner := &fakeOwnerTx{}
	storage := &fakeObjectStore{}
	return &attachmentFixture{
		service: &attachmentServiceImpl{
			database:        runner,
			attachmentRepo:  atts,
			applicationRepo: apps,
			storage:         storage,
			bucket:          "attachments",
			signedURLTTL:    time.Minute,
			statsCache:      &fakeStatsCache{},
		},
		runner:  runner,
		atts:    atts,
		apps:    apps,
		storage: storage,
	}
}

func TestCategoryFlagColumn(t *testing.T) {
	cases := []struct {
		category models.AttachmentCategory
		column   string
		ok       bool
	}{
		{models.CategoryResume, "resume_created", true},
		{models.CategoryCV, "work_history_created", true},
		{models.CategoryPortfolio, "portfolio_submitted", true},
		{models.CategoryOther, "", false},
	}
	for _, c := range cases {
		column, ok := categoryFlagColumn(c.category)
		if column != c.column || ok != c.ok {
			t.Errorf("categoryFlagColumn(%q) = (%q, %v), want (%q, %v)",
				c.category, column, ok, c.column, c.ok)
		}
	}
}

func TestAttachmentUpload_RejectsInvalidCategory(t *testing.T) {
	// Category is checked before any store or storage access
	s := &attachmentServiceImpl{}

	_, err := s.Upload(context.Background(), 1, 1, "a.pdf", 100, strings.NewReader("x"), "photo")
	if !errors.Is(err, apperrors.ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestAttachmentUpload_RejectsOversizedFile(t *testing.T) {
	// Size is checked before any store or storage access
	s := &attachmentServiceImpl{}

	_, err := s.Upload(context.Background(), 1, 1, "a.pdf", models.MaxAttachmentSizeBytes+1, strings.NewReader("x"), models.CategoryResume)
	if !errors.Is(err, apperrors.ErrAttachmentTooLarge) {
		t.Errorf("err = %v, want ErrAttachmentTooLarge", err)
	}
}

func TestAttachmentUpload_RejectsEleventhAttachment(t *testing.T) {
	fx := newAttachmentFixture(
		&fakeAttStore{count: models.MaxAttachmentsPerApplication},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)

	_, err := fx.service.Upload(context.Background(), 1, 9, "r.pdf", 100, strings.NewReader("x"), models.CategoryResume)
	if !errors.Is(err, apperrors.ErrAttachmentLimit) {
		t.Fatalf("err = %v, want ErrAttachmentLimit", err)
	}
	if len(fx.storage.uploads) != 0 {
		t.Error("rejected upload must not write to storage")
	}
	if fx.runner.calls != 0 || fx.atts.created != 0 {
		t.Error("rejected upload must not touch the database")
	}
}

func TestAttachmentUpload_TenthAcceptedAndSetsFlag(t *testing.T) {
	fx := newAttachmentFixture(
		&fakeAttStore{count: models.MaxAttachmentsPerApplication - 1},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)

	att, err := fx.service.Upload(context.Background(), 1, 9, "r.pdf", 100, strings.NewReader("x"), models.CategoryResume)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if att == nil || att.ApplicationID != 9 {
		t.Errorf("stored attachment = %+v", att)
	}
	if len(fx.storage.uploads) != 1 || fx.atts.created != 1 {
		t.Errorf("uploads = %d, inserts = %d, want 1 and 1", len(fx.storage.uploads), fx.atts.created)
	}
	want := flagChange{9, "resume_created", true}
	if len(fx.apps.flags) != 1 || fx.apps.flags[0] != want {
		t.Errorf("flags = %+v, want [%+v]", fx.apps.flags, want)
	}
}

func TestAttachmentUpload_UnownedApplicationRejectedBeforeStorage(t *testing.T) {
	// The application belongs to student 1; student 2 uploads against it
	fx := newAttachmentFixture(
		&fakeAttStore{},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)

	_, err := fx.service.Upload(context.Background(), 2, 9, "r.pdf", 100, strings.NewReader("x"), models.CategoryResume)
	if !errors.Is(err, apperrors.ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
	if len(fx.storage.uploads) != 0 || fx.runner.calls != 0 {
		t.Error("unowned upload must not reach storage or the database")
	}
}

func TestAttachmentDelete_LastInCategoryClearsFlag(t *testing.T) {
	fx := newAttachmentFixture(
		&fakeAttStore{
			att:       &models.Attachment{ID: 5, ApplicationID: 9, FilePath: "9/resume/a.pdf", Category: models.CategoryResume},
			owner:     1,
			remaining: 0,
		},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)

	if err := fx.service.Delete(context.Background(), 1, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fx.storage.removed) != 1 || fx.storage.removed[0] != "9/resume/a.pdf" {
		t.Errorf("removed = %v", fx.storage.removed)
	}
	if len(fx.atts.deleted) != 1 || fx.atts.deleted[0] != 5 {
		t.Errorf("deleted rows = %v", fx.atts.deleted)
	}
	want := flagChange{9, "resume_created", false}
	if len(fx.apps.flags) != 1 || fx.apps.flags[0] != want {
		t.Errorf("flags = %+v, want [%+v]", fx.apps.flags, want)
	}
}

func TestAttachmentDelete_RemainingInCategoryKeepsFlag(t *testing.T) {
	fx := newAttachmentFixture(
		&fakeAttStore{
			att:       &models.Attachment{ID: 5, ApplicationID: 9, FilePath: "9/resume/a.pdf", Category: models.CategoryResume},
			owner:     1,
			remaining: 1,
		},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)

	if err := fx.service.Delete(context.Background(), 1, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fx.apps.flags) != 0 {
		t.Errorf("flag must stay while the category still has attachments, got %+v", fx.apps.flags)
	}
}

func TestAttachmentDelete_StorageFailureKeepsRow(t *testing.T) {
	fx := newAttachmentFixture(
		&fakeAttStore{
			att:   &models.Attachment{ID: 5, ApplicationID: 9, FilePath: "9/resume/a.pdf", Category: models.CategoryResume},
			owner: 1,
		},
		&fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}},
	)
	fx.storage.removeErr = errors.New("disk detached")

	err := fx.service.Delete(context.Background(), 1, 5)
	if !errors.Is(err, apperrors.ErrStorageRemoveFailed) {
		t.Fatalf("err = %v, want ErrStorageRemoveFailed", err)
	}
	if fx.runner.calls != 0 || len(fx.atts.deleted) != 0 {
		t.Error("row must survive when the storage removal fails")
	}
}

func TestAttachmentDelete_RejectsInvalidID(t *testing.T) {
	s := &attachmentServiceImpl{}

	if err := s.Delete(context.Background(), 1, 0); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
	if err := s.Delete(context.Background(), 1, -5); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}
