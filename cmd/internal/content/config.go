package content

// Config locates the page sources and the static tree.
type Config struct {
	// ContentDir holds the text pages and the HTML shell.
	ContentDir string
	// StaticDir is served for any path without a dedicated route.
	StaticDir string
	// ProtectedDir is never served statically, even when inside StaticDir.
	ProtectedDir string

	TextClients []string
	TrustProxy  bool
}

// DefaultConfig mirrors the on-disk layout of the repository.
func DefaultConfig() Config {
	return Config{
		ContentDir:   "content",
		StaticDir:    "web",
		ProtectedDir: "web/assets/protected",
		TextClients:  DefaultTextClients,
	}
}
