package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"portfolio/cmd/internal/assets"
	"portfolio/cmd/internal/remote"
)

const shellPage = "index.html"

// textRoute is a page with a terminal rendering and a browser redirect.
type textRoute struct {
	pattern  string
	page     string
	redirect string
}

var textRoutes = []textRoute{
	{pattern: "GET /projects", page: "projects.txt", redirect: "/#projects"},
	{pattern: "GET /resume", page: "resume.txt", redirect: "/#about"},
	{pattern: "GET /fun", page: "fun.txt", redirect: "/"},
}

// Handler serves pages, the gradient and the static tree.
type Handler struct {
	log    *slog.Logger
	cfg    Config
	detect Detector
	pages  Pages

	staticRoot    string
	protectedRoot string
}

// NewHandler resolves the configured directories to absolute paths.
// The directories need not exist yet.
func NewHandler(log *slog.Logger, cfg Config) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ContentDir == "" {
		cfg.ContentDir = def.ContentDir
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = def.StaticDir
	}
	if cfg.ProtectedDir == "" {
		cfg.ProtectedDir = def.ProtectedDir
	}

	staticRoot, err := filepath.Abs(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("content: static dir: %w", err)
	}
	protectedRoot, err := filepath.Abs(cfg.ProtectedDir)
	if err != nil {
		return nil, fmt.Errorf("content: protected dir: %w", err)
	}

	return &Handler{
		log:           log,
		cfg:           cfg,
		detect:        NewDetector(cfg.TextClients),
		pages:         NewPages(cfg.ContentDir),
		staticRoot:    staticRoot,
		protectedRoot: protectedRoot,
	}, nil
}

// Register wires the page routes and the static catch-all onto mux.
// API routes registered on the same mux take precedence by specificity.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("GET /{$}", h.handleIndex)
	for _, rt := range textRoutes {
		mux.HandleFunc(rt.pattern, h.textOrRedirect(rt.page, rt.redirect))
	}
	mux.HandleFunc("GET /colors", h.handleColors)
	mux.HandleFunc("/", h.handleStatic)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "User-Agent")
	if h.detect.IsText(r) {
		h.serveText(w, r, "index.txt")
		return
	}
	h.serveShell(w, r, http.StatusOK)
}

func (h *Handler) textOrRedirect(page, target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "User-Agent")
		if h.detect.IsText(r) {
			h.serveText(w, r, page)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func (h *Handler) handleColors(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "User-Agent")
	if !h.detect.IsText(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	q := r.URL.Query()
	width := ParseSide(q.Get("w"), DefaultGradientWidth)
	height := ParseSide(q.Get("h"), DefaultGradientHeight)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := WriteGradient(w, width, height); err != nil {
		h.log.Debug("content.colors.write_failed", "err", err)
	}
}

func (h *Handler) serveText(w http.ResponseWriter, r *http.Request, page string) {
	raw, err := h.pages.Read(page)
	if err != nil {
		h.log.Error("content.page.read_failed", "page", page, "err", err)
		http.Error(w, "500 - page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(Render(raw, remote.String(r, h.cfg.TrustProxy)))
}

// serveShell writes the HTML front end with the given status. It doubles as
// the browser 404 page so client-side routing can take over.
func (h *Handler) serveShell(w http.ResponseWriter, r *http.Request, status int) {
	body, err := os.ReadFile(h.pages.Path(shellPage))
	if err != nil {
		h.log.Error("content.shell.read_failed", "err", err)
		if status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "500 - page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (h *Handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.notFound(w, r)
		return
	}

	f, info, err := h.openStatic(r.URL.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.log.Warn("content.static.refused", "path", r.URL.Path, "err", err)
		}
		h.notFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "User-Agent")
	if h.detect.IsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(NotFoundText(r.Host)))
		return
	}
	h.serveShell(w, r, http.StatusNotFound)
}

var errProtectedPath = errors.New("content: path inside protected directory")

// openStatic maps a URL path to a regular file under the static root.
// Dot segments, directories and anything inside the protected directory
// are reported as fs.ErrNotExist or errProtectedPath.
func (h *Handler) openStatic(urlPath string) (*os.File, fs.FileInfo, error) {
	clean := path.Clean("/" + urlPath)
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return nil, nil, fs.ErrNotExist
		}
	}

	full := filepath.Join(h.staticRoot, filepath.FromSlash(clean))
	if !assets.Within(h.staticRoot, full) {
		return nil, nil, fs.ErrNotExist
	}
	if h.isProtected(full) {
		return nil, nil, errProtectedPath
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return nil, nil, fs.ErrNotExist
	}
	if !assets.Within(canonical(h.staticRoot), resolved) {
		return nil, nil, fmt.Errorf("content: %s escapes static root", urlPath)
	}
	if h.isProtected(resolved) {
		return nil, nil, errProtectedPath
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, nil, fs.ErrNotExist
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}

// isProtected checks p against the protected root lexically, then by file
// identity on each ancestor so case-insensitive filesystems cannot alias it.
func (h *Handler) isProtected(p string) bool {
	if assets.Within(h.protectedRoot, p) || assets.Within(canonical(h.protectedRoot), p) {
		return true
	}
	root, err := os.Stat(h.protectedRoot)
	if err != nil {
		return false
	}
	for dir := p; ; {
		if info, err := os.Stat(dir); err == nil && os.SameFile(root, info) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

// canonical resolves symlinks in dir, falling back to dir when it is missing.
func canonical(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved
	}
	return dir
}
