package dto

import (
	"strings"
	"testing"
)

func TestUpdateStudentProfileRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     UpdateStudentProfileRequest
		wantErr bool
	}{
		{"valid", UpdateStudentProfileRequest{FullName: "山田太郎", CourseID: 1}, false},
		{"valid with date", UpdateStudentProfileRequest{FullName: "山田太郎", CourseID: 1, GraduationDate: "2026-03-31"}, false},
		{"missing name", UpdateStudentProfileRequest{CourseID: 1}, true},
		{"blank name", UpdateStudentProfileRequest{FullName: "  ", CourseID: 1}, true},
		{"name too long", UpdateStudentProfileRequest{FullName: strings.Repeat("あ", 101), CourseID: 1}, true},
		{"missing course", UpdateStudentProfileRequest{FullName: "山田太郎"}, true},
		{"bad date", UpdateStudentProfileRequest{FullName: "山田太郎", CourseID: 1, GraduationDate: "31-03-2026"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestInviteUserRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     InviteUserRequest
		wantErr bool
	}{
		{"valid student", InviteUserRequest{Email: "s@example.com", FullName: "山田太郎", CourseID: 1}, false},
		{"valid explicit role", InviteUserRequest{Email: "s@example.com", FullName: "山田太郎", CourseID: 1, Role: "student"}, false},
		{"valid admin without course", InviteUserRequest{Email: "a@example.com", FullName: "管理者", Role: "admin"}, false},
		{"bad email", InviteUserRequest{Email: "not-an-email", FullName: "山田太郎", CourseID: 1}, true},
		{"missing name", InviteUserRequest{Email: "s@example.com", CourseID: 1}, true},
		{"unknown role", InviteUserRequest{Email: "s@example.com", FullName: "山田太郎", CourseID: 1, Role: "superuser"}, true},
		{"student without course", InviteUserRequest{Email: "s@example.com", FullName: "山田太郎"}, true},
		{"default role without course", InviteUserRequest{Email: "s@example.com", FullName: "山田太郎", Role: ""}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}
