package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenValidator is the subset of the token store the gate depends on.
type TokenValidator interface {
	Validate(token string) bool
}

// Gate opens files from the protected directory for holders of a valid token.
type Gate struct {
	root   string
	tokens TokenValidator
}

// NewGate resolves root to an absolute path. root need not exist yet.
func NewGate(root string, tokens TokenValidator) (*Gate, error) {
	if tokens == nil {
		return nil, errors.New("assets: nil token validator")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: protected root: %w", err)
	}
	return &Gate{root: abs, tokens: tokens}, nil
}

// Root returns the absolute protected directory.
func (g *Gate) Root() string { return g.root }

// Authorize reports ErrUnauthorized unless tok is currently valid.
func (g *Gate) Authorize(tok string) error {
	if strings.TrimSpace(tok) == "" || !g.tokens.Validate(tok) {
		return ErrUnauthorized
	}
	return nil
}

// Open authorizes tok and opens name inside the protected directory.
// The caller owns the returned file and must close it.
func (g *Gate) Open(name, tok string) (*os.File, fs.FileInfo, error) {
	if err := g.Authorize(tok); err != nil {
		return nil, nil, err
	}

	path, err := g.Resolve(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("assets: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("assets: stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Resolve maps name to a canonical path inside the protected directory.
func (g *Gate) Resolve(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", ErrNotFound
	}

	joined := filepath.Join(g.root, filepath.FromSlash(name))
	if !Within(g.root, joined) {
		return "", ErrForbidden
	}
	if joined == g.root {
		return "", ErrNotFound
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("assets: resolve: %w", err)
	}

	root, err := filepath.EvalSymlinks(g.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("assets: resolve root: %w", err)
	}
	if !Within(root, resolved) {
		return "", ErrForbidden
	}
	return resolved, nil
}

// Within reports whether path equals root or lies beneath it.
// Both arguments must be absolute and clean.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
