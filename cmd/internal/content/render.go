package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// IPPlaceholder is replaced with the client address in text pages.
const IPPlaceholder = "<public IP>"

var escSpellings = [][]byte{
	[]byte(`\x1b`),
	[]byte(`\033`),
	[]byte(`\e`),
}

// ErrPageMissing is returned when a text page file cannot be found.
var ErrPageMissing = errors.New("content: page missing")

// Render turns literal escape spellings into ESC and fills in the
// client address placeholder.
func Render(raw []byte, clientIP string) []byte {
	out := raw
	for _, sp := range escSpellings {
		out = bytes.ReplaceAll(out, sp, []byte{0x1b})
	}
	if clientIP == "" {
		clientIP = "Unknown"
	}
	return bytes.ReplaceAll(out, []byte(IPPlaceholder), []byte(clientIP))
}

// Pages reads text pages from a directory on every call.
type Pages struct {
	dir string
}

// NewPages returns a reader rooted at dir.
func NewPages(dir string) Pages { return Pages{dir: dir} }

// Read loads name from the pages directory. Names are fixed by the router,
// never taken from the request.
func (p Pages) Read(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageMissing, name)
		}
		return nil, fmt.Errorf("content: read %s: %w", name, err)
	}
	return b, nil
}

// Path returns the on-disk location of name.
func (p Pages) Path(name string) string { return filepath.Join(p.dir, name) }
