package assets

import (
	"os"
	"strings"
)

// Listing maps a display filename to itself.
type Listing map[string]string

// List returns the regular files directly inside dir, skipping dotfiles.
// A missing or unreadable directory yields an empty listing, never an error.
func List(dir string) Listing {
	out := Listing{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}

	for _, e := range entries {
		// DirEntry.Type does not follow symlinks, so symlinked dirs are skipped too.
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out[e.Name()] = e.Name()
	}
	return out
}
