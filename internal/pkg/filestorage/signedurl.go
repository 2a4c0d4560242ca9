package filestorage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signed URL errors
var (
	ErrSignatureInvalid = errors.New("signature mismatch")
	ErrSignatureExpired = errors.New("signed URL expired")
)

// URLSigner issues and verifies HMAC-signed download URLs
type URLSigner struct {
	secret []byte
}

// NewURLSigner creates a signer from the configured secret
func NewURLSigner(secret string) *URLSigner {
	return &URLSigner{secret: []byte(secret)}
}

func (s *URLSigner) signature(bucket, objPath, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%s", bucket, objPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign builds a download URL valid until expiry
func (s *URLSigner) Sign(baseURL, bucket, objPath string, expiry time.Time) (string, error) {
	expires := strconv.FormatInt(expiry.Unix(), 10)
	sig := s.signature(bucket, objPath, expires)

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("signature", sig)

	return fmt.Sprintf("%s/files/%s/%s?%s", baseURL, url.PathEscape(bucket), objPath, q.Encode()), nil
}

// Verify checks a presented signature and its expiry
func (s *URLSigner) Verify(bucket, objPath, expires, signature string) error {
	expected := s.signature(bucket, objPath, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}

	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrSignatureInvalid
	}
	if time.Now().After(time.Unix(unix, 0)) {
		return ErrSignatureExpired
	}

	return nil
}
