package validation

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"student@example.com",
		"tanaka.taro+job@school.ac.jp",
		"a_b-c%d@sub.domain.co",
	}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@domain",
		"user @example.com",
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}

func TestStringValidation_Lengths(t *testing.T) {
	if NewStringValidation("").Validate() {
		t.Error("required empty value should fail")
	}
	if !NewStringValidation("").WithRequired(false).Validate() {
		t.Error("optional empty value should pass")
	}
	if !NewStringValidation("山田太郎").WithMinLength(1).WithMaxLength(100).Validate() {
		t.Error("multibyte name within bounds should pass")
	}
	// Length counts runes, not bytes
	if !NewStringValidation(strings.Repeat("あ", 100)).WithMaxLength(100).Validate() {
		t.Error("100 multibyte runes should pass a 100-rune bound")
	}
	if NewStringValidation(strings.Repeat("あ", 101)).WithMaxLength(100).Validate() {
		t.Error("101 runes should fail a 100-rune bound")
	}
	if NewStringValidation("a").WithMinLength(2).Validate() {
		t.Error("value below minimum length should fail")
	}
}
