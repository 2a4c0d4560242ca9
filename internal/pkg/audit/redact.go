package audit

import (
	"strings"
)

// MaskValue replaces any sensitive value in persisted audit payloads
const MaskValue = "[REDACTED]"

// sensitiveKeyParts are matched as case-insensitive substrings of field names
var sensitiveKeyParts = []string{
	"password",
	"token",
	"secret",
	"credit_card",
	"api_key",
}

// isSensitiveKey reports whether a field name must be masked entirely
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// MaskEmail collapses the local part of an email address to its first
// character plus a fixed mask, preserving the domain:
// "jdoe@example.com" -> "j***@example.com". Single-character local parts
// become "*@domain". Values without "@" pass through unchanged.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len([]rune(local)) <= 1 {
		return "*@" + domain
	}
	return string([]rune(local)[0]) + "***@" + domain
}

// Redact walks a detail payload and masks sensitive data before persistence.
// Field names containing a sensitive substring are replaced with MaskValue;
// fields literally named "email" have their value masked with MaskEmail.
// The input is never modified; maps and slices are copied.
func Redact(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			switch {
			case isSensitiveKey(key):
				out[key] = MaskValue
			case strings.EqualFold(key, "email"):
				if s, ok := val.(string); ok {
					out[key] = MaskEmail(s)
				} else {
					out[key] = Redact(val)
				}
			default:
				out[key] = Redact(val)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = Redact(item)
		}
		return out
	default:
		return value
	}
}

// RedactMap is the map-typed convenience form of Redact
func RedactMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return Redact(m).(map[string]interface{})
}
