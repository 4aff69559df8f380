package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Escapes(t *testing.T) {
	in := []byte(`\x1b[1mA\x1b[0m \033[31mB\e[0m`)
	got := Render(in, "1.2.3.4")
	assert.Equal(t, "\x1b[1mA\x1b[0m \x1b[31mB\x1b[0m", string(got))
}

func TestRender_IPPlaceholder(t *testing.T) {
	got := Render([]byte("you are <public IP>, yes <public IP>"), "203.0.113.9")
	assert.Equal(t, "you are 203.0.113.9, yes 203.0.113.9", string(got))

	got = Render([]byte("ip: <public IP>"), "")
	assert.Equal(t, "ip: Unknown", string(got))
}

func TestRender_LeavesOtherBackslashes(t *testing.T) {
	in := []byte(`C:\path \n \x1c`)
	assert.Equal(t, string(in), string(Render(in, "x")))
}

func TestPages_Read(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.txt"), []byte("hi"), 0o644))

	p := NewPages(dir)
	b, err := p.Read("index.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))

	_, err = p.Read("resume.txt")
	assert.ErrorIs(t, err, ErrPageMissing)
}
