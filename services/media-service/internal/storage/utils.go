package storage

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// now is replaced in tests
var now = time.Now

// GenerateFileName allocates a unique name for an upload.
// The name is <YYYYMMDD_HHMMSS>_<md5(original)[:8]>_<random>.<ext> with the original extension lowercased.
func GenerateFileName(original string) string {
	timestamp := now().Format("20060102_150405")
	sum := md5.Sum([]byte(original))
	hash := hex.EncodeToString(sum[:])[:8]
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	ext := strings.ToLower(filepath.Ext(original))
	return timestamp + "_" + hash + "_" + token + ext
}

// SanitizeFileName reduces a client-supplied name to a safe base name.
// Accents are decomposed to their ASCII base, directory parts are dropped,
// whitespace becomes '_' and anything outside [A-Za-z0-9._-] is removed.
func SanitizeFileName(name string) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// sizeWriter tracks the total number of bytes written to it
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new sizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
