package dto

import "testing"

func TestLoginRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Email: "s@example.com", Password: "secret1"}, false},
		{"bad email", LoginRequest{Email: "nope", Password: "secret1"}, true},
		{"empty email", LoginRequest{Password: "secret1"}, true},
		{"empty password", LoginRequest{Email: "s@example.com"}, true},
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

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     UpdatePasswordRequest
		wantErr bool
	}{
		{"valid", UpdatePasswordRequest{Password: "secret1", ConfirmPassword: "secret1"}, false},
		{"too short", UpdatePasswordRequest{Password: "abc", ConfirmPassword: "abc"}, true},
		{"mismatch", UpdatePasswordRequest{Password: "secret1", ConfirmPassword: "secret2"}, true},
		{"empty", UpdatePasswordRequest{}, true},
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

func TestConfirmInviteRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     ConfirmInviteRequest
		wantErr bool
	}{
		{"valid", ConfirmInviteRequest{Token: "tok", Password: "secret1", ConfirmPassword: "secret1"}, false},
		{"missing token", ConfirmInviteRequest{Password: "secret1", ConfirmPassword: "secret1"}, true},
		{"password mismatch", ConfirmInviteRequest{Token: "tok", Password: "secret1", ConfirmPassword: "other12"}, true},
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

func TestUploadAttachmentRequest_Validate(t *testing.T) {
	for _, category := range []string{"resume", "cv", "portfolio", "other"} {
		req := UploadAttachmentRequest{Category: category}
		if err := req.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", category, err)
		}
	}

	for _, category := range []string{"", "photo", "RESUME"} {
		req := UploadAttachmentRequest{Category: category}
		if err := req.Validate(); err == nil {
			t.Errorf("Validate(%q) = nil, want error", category)
		}
	}
}
