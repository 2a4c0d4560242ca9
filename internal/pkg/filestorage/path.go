package filestorage

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"time"
)

const pathSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateObjectPath builds a collision-resistant storage path for an upload:
// {applicationID}/{category}/{unix-millis}_{random}.{ext}. The raw original
// filename never becomes part of the path, so traversal sequences and
// duplicate names cannot collide or escape the bucket.
func GenerateObjectPath(applicationID int64, category, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		ext = "bin"
	}

	suffix := make([]byte, 12)
	for i := range suffix {
		suffix[i] = pathSuffixChars[rand.Intn(len(pathSuffixChars))]
	}

	return fmt.Sprintf("%d/%s/%d_%s.%s", applicationID, category, time.Now().UnixMilli(), string(suffix), ext)
}
