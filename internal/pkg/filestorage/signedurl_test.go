package filestorage

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestURLSigner_SignAndVerify(t *testing.T) {
	signer := NewURLSigner("secret")

	signed, err := signer.Sign("http://localhost:8080", "attachments", "42/resume/x.pdf", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("signed URL does not parse: %v", err)
	}
	if !strings.HasPrefix(u.Path, "/files/attachments/") {
		t.Errorf("path = %q, want /files/attachments/ prefix", u.Path)
	}

	q := u.Query()
	if err := signer.Verify("attachments", "42/resume/x.pdf", q.Get("expires"), q.Get("signature")); err != nil {
		t.Errorf("Verify on a fresh signature: %v", err)
	}
}

func TestURLSigner_RejectsTamperedPath(t *testing.T) {
	signer := NewURLSigner("secret")

	signed, err := signer.Sign("http://localhost:8080", "attachments", "42/resume/x.pdf", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	q, _ := url.Parse(signed)
	query := q.Query()

	err = signer.Verify("attachments", "43/resume/other.pdf", query.Get("expires"), query.Get("signature"))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestURLSigner_RejectsWrongSecret(t *testing.T) {
	signer := NewURLSigner("secret")
	other := NewURLSigner("other")

	signed, err := signer.Sign("http://localhost:8080", "attachments", "x.pdf", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	q, _ := url.Parse(signed)
	query := q.Query()

	err = other.Verify("attachments", "x.pdf", query.Get("expires"), query.Get("signature"))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestURLSigner_RejectsExpired(t *testing.T) {
	signer := NewURLSigner("secret")

	signed, err := signer.Sign("http://localhost:8080", "attachments", "x.pdf", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	q, _ := url.Parse(signed)
	query := q.Query()

	err = signer.Verify("attachments", "x.pdf", query.Get("expires"), query.Get("signature"))
	if !errors.Is(err, ErrSignatureExpired) {
		t.Errorf("err = %v, want ErrSignatureExpired", err)
	}
}

func TestURLSigner_RejectsForgedExpiry(t *testing.T) {
	signer := NewURLSigner("secret")

	signed, err := signer.Sign("http://localhost:8080", "attachments", "x.pdf", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	q, _ := url.Parse(signed)
	query := q.Query()

	// Pushing the expiry forward without re-signing must fail the signature check
	forged := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	err = signer.Verify("attachments", "x.pdf", forged, query.Get("signature"))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}
