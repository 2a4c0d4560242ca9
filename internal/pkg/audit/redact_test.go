package audit

import (
	"testing"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"jdoe@example.com", "j***@example.com"},
		{"a@example.com", "*@example.com"},
		{"tanaka.taro@school.ac.jp", "t***@school.ac.jp"},
		{"not-an-email", "not-an-email"},
		{"", ""},
		{"@example.com", "*@example.com"},
	}
	for _, c := range cases {
		if got := MaskEmail(c.in); got != c.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRedact_SensitiveKeys(t *testing.T) {
	in := map[string]interface{}{
		"password":         "hunter2",
		"new_password":     "hunter3",
		"inviteToken":      "abc123",
		"api_key":          "k",
		"client_secret":    "s",
		"credit_card":      "4111",
		"company":          "ACME",
		"PASSWORD_CONFIRM": "hunter2",
	}

	out := Redact(in).(map[string]interface{})

	for _, key := range []string{"password", "new_password", "inviteToken", "api_key", "client_secret", "credit_card", "PASSWORD_CONFIRM"} {
		if out[key] != MaskValue {
			t.Errorf("key %q = %v, want %q", key, out[key], MaskValue)
		}
	}
	if out["company"] != "ACME" {
		t.Errorf("non-sensitive key was altered: %v", out["company"])
	}
}

func TestRedact_EmailValueMasked(t *testing.T) {
	in := map[string]interface{}{
		"email": "jdoe@example.com",
	}
	out := Redact(in).(map[string]interface{})
	if out["email"] != "j***@example.com" {
		t.Errorf("email = %v, want j***@example.com", out["email"])
	}
}

func TestRedact_Nested(t *testing.T) {
	in := map[string]interface{}{
		"details": map[string]interface{}{
			"password": "x",
			"list": []interface{}{
				map[string]interface{}{"token": "y", "name": "ok"},
			},
		},
	}

	out := Redact(in).(map[string]interface{})
	details := out["details"].(map[string]interface{})
	if details["password"] != MaskValue {
		t.Errorf("nested password = %v, want masked", details["password"])
	}
	item := details["list"].([]interface{})[0].(map[string]interface{})
	if item["token"] != MaskValue {
		t.Errorf("token inside slice = %v, want masked", item["token"])
	}
	if item["name"] != "ok" {
		t.Errorf("plain value inside slice was altered: %v", item["name"])
	}
}

func TestRedact_DoesNotModifyInput(t *testing.T) {
	in := map[string]interface{}{"password": "hunter2"}
	_ = Redact(in)
	if in["password"] != "hunter2" {
		t.Errorf("input map was modified: %v", in["password"])
	}
}

func TestRedactMap_Nil(t *testing.T) {
	if RedactMap(nil) != nil {
		t.Error("RedactMap(nil) should return nil")
	}
}
