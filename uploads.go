package actions

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RenameUpload returns a collision-free filename for a user upload,
// preserving the original extension. The extension is lowercased so later
// lookups can compare without normalizing.
func RenameUpload(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}
