package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/pkg/apperrors"
)

func TestInviteUser_RequiresElevatedPool(t *testing.T) {
	// Without elevated store credentials inviting fails closed; the regular
	// pool is never an acceptable substitute for account creation
	s := &inviteServiceImpl{}

	req := &dto.InviteUserRequest{Email: "s@example.com", FullName: "山田太郎", CourseID: 1}
	err := s.InviteUser(context.Background(), req)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestInviteUser_InvalidPayloadCheckedFirst(t *testing.T) {
	s := &inviteServiceImpl{}

	err := s.InviteUser(context.Background(), &dto.InviteUserRequest{Email: "not-an-email"})
	if err == nil || errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("err = %v, want validation failure before the pool check", err)
	}
}

func TestCheckDomain(t *testing.T) {
	open := &inviteServiceImpl{}
	if err := open.checkDomain("anyone@anywhere.example"); err != nil {
		t.Errorf("empty allow-list should accept any domain, got %v", err)
	}

	restricted := &inviteServiceImpl{allowedDomains: []string{"school.ac.jp"}}
	if err := restricted.checkDomain("taro@school.ac.jp"); err != nil {
		t.Errorf("allowed domain rejected: %v", err)
	}
	if err := restricted.checkDomain("taro@evil.example"); !errors.Is(err, apperrors.ErrEmailDomainNotAllowed) {
		t.Errorf("err = %v, want ErrEmailDomainNotAllowed", err)
	}
	if err := restricted.checkDomain("no-at-sign"); !errors.Is(err, apperrors.ErrInvalidEmail) {
		t.Errorf("err = %v, want ErrInvalidEmail", err)
	}
}
