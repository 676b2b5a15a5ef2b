package upload

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Prefix marks files written by this service so sweeps never touch
// anything else in a shared temp directory.
const Prefix = "coteacher-upload-"

// Path returns a fresh file path in dir for an upload named original. Only
// the extension of original is kept.
func Path(dir, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || len(ext) > 8 {
		ext = ".bin"
	}
	return filepath.Join(dir, Prefix+uuid.NewString()+ext)
}

// Owned reports whether name was produced by Path.
func Owned(name string) bool {
	return strings.HasPrefix(filepath.Base(name), Prefix)
}
