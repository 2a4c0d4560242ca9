package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

func newApplicationFixture(apps *fakeAppStore) (*applicationServiceImpl, *fakeOwnerTx) {
	runner := &fakeOwnerTx{}
	return &applicationServiceImpl{
		database:        runner,
		applicationRepo: apps,
		statsCache:      &fakeStatsCache{},
	}, runner
}

func TestApplicationUpdate_OtherStudentsApplicationUntouched(t *testing.T) {
	// The application belongs to student 1; student 2 tries to edit it
	apps := &fakeAppStore{app: &models.Application{ID: 9, StudentID: 1, Status: models.StatusInterviewing}}
	s, runner := newApplicationFixture(apps)

	req := &dto.UpdateApplicationRequest{
		CreateApplicationRequest: dto.CreateApplicationRequest{Company: "ACME", Position: "PM"},
		Status:                   "内定",
	}
	_, err := s.Update(context.Background(), 9, 2, req)
	if !errors.Is(err, apperrors.ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
	if runner.calls != 0 || apps.updates != 0 {
		t.Error("foreign update must not reach the store")
	}
	if apps.app.Status != models.StatusInterviewing {
		t.Errorf("stored status changed to %q", apps.app.Status)
	}
}

func TestApplicationUpdate_OwnerRunsInPinnedTransaction(t *testing.T) {
	apps := &fakeAppStore{app: &models.Application{ID: 9, StudentID: 1, Status: models.StatusInterviewing}}
	s, runner := newApplicationFixture(apps)

	req := &dto.UpdateApplicationRequest{
		CreateApplicationRequest: dto.CreateApplicationRequest{Company: "ACME", Position: "PM"},
		Status:                   "内定",
	}
	app, err := s.Update(context.Background(), 9, 1, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if runner.calls != 1 || apps.updates != 1 {
		t.Errorf("tx runs = %d, updates = %d, want 1 and 1", runner.calls, apps.updates)
	}
	if app.Status != models.StatusOffer {
		t.Errorf("updated status = %q, want %q", app.Status, models.StatusOffer)
	}
}

func TestApplicationDelete_OtherStudentsApplicationUntouched(t *testing.T) {
	apps := &fakeAppStore{app: &models.Application{ID: 9, StudentID: 1}}
	s, _ := newApplicationFixture(apps)

	err := s.Delete(context.Background(), 9, 2)
	if !errors.Is(err, apperrors.ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
	if apps.deletes != 0 {
		t.Error("foreign delete must remove zero rows")
	}
}

func TestApplicationCreate_InvalidPayloadNeverReachesStore(t *testing.T) {
	apps := &fakeAppStore{}
	s, runner := newApplicationFixture(apps)

	_, err := s.Create(context.Background(), 1, &dto.CreateApplicationRequest{Position: "PM"})
	if err == nil {
		t.Fatal("missing company must fail validation")
	}
	if runner.calls != 0 || apps.creates != 0 {
		t.Error("invalid payload must not reach the store")
	}
}
