package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used by prettyHandler. When disabled every
// Sprint returns its input unchanged.
type palette struct {
	dim, bold                      *color.Color
	red, yellow, green, blue, cyan *color.Color
	magenta                        *color.Color
}

func newPalette(enabled bool) *palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &palette{
		dim:     mk(color.Faint),
		bold:    mk(color.Bold),
		red:     mk(color.FgRed),
		yellow:  mk(color.FgYellow),
		green:   mk(color.FgGreen),
		blue:    mk(color.FgBlue),
		cyan:    mk(color.FgCyan),
		magenta: mk(color.FgMagenta),
	}
}

type prettyHandler struct {
	w      io.Writer
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	pal    *palette
	mu     *sync.Mutex
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, colored bool) slog.Handler {
	h := &prettyHandler{
		w:   w,
		pal: newPalette(colored),
		mu:  &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString("ts=")
	b.WriteString(h.pal.dim.Sprint(ts.Format("15:04:05.000")))
	b.WriteString(" lvl=")
	b.WriteString(h.levelTag(r.Level))
	b.WriteString(" msg=")
	b.WriteString(h.pal.bold.Sprint(r.Message))

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			b.WriteString(" src=")
			b.WriteString(h.pal.dim.Sprint(fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)))
		}
	}

	// h.attrs carry their group prefix already; record attrs get the current one.
	for _, a := range h.attrs {
		h.appendAttr(&b, a, "")
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, a, prefix)
		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append([]slog.Attr{}, h.attrs...)
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		cp.attrs = append(cp.attrs, a)
	}
	return &cp
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if strings.TrimSpace(name) == "" {
		return h
	}
	cp := *h
	cp.groups = append(append([]string{}, h.groups...), name)
	return &cp
}

func (h *prettyHandler) appendAttr(b *strings.Builder, a slog.Attr, parent string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := strings.TrimSpace(a.Key)
	if key == "" {
		return
	}

	fullKey := key
	if parent != "" {
		fullKey = parent + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, ga, fullKey)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(remapPrettyKey(fullKey))
	b.WriteByte('=')
	b.WriteString(h.prettyValue(fullKey, a.Value))
}

func (h *prettyHandler) prettyValue(key string, v slog.Value) string {
	switch key {
	case "method":
		return h.method(strings.ToUpper(strings.TrimSpace(v.String())))
	case "path":
		return h.pal.cyan.Sprint(strings.TrimSpace(v.String()))
	case "status":
		if n, ok := valueToInt64(v); ok {
			return h.status(int(n))
		}
	case "status_class":
		return h.statusClass(strings.TrimSpace(v.String()))
	case "duration_ms":
		if n, ok := valueToInt64(v); ok {
			return h.duration(n)
		}
	case "result":
		return h.result(strings.ToLower(strings.TrimSpace(v.String())))
	}

	return quoteIfNeeded(valueToString(v))
}

func (h *prettyHandler) levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.pal.red.Sprint("[ERROR]")
	case level >= slog.LevelWarn:
		return h.pal.yellow.Sprint("[WARN]")
	case level < slog.LevelInfo:
		return h.pal.magenta.Sprint("[DEBUG]")
	default:
		return h.pal.blue.Sprint("[INFO]")
	}
}

func (h *prettyHandler) method(m string) string {
	switch m {
	case "GET", "HEAD":
		return h.pal.green.Sprint(m)
	case "POST":
		return h.pal.cyan.Sprint(m)
	case "DELETE":
		return h.pal.red.Sprint(m)
	default:
		return h.pal.yellow.Sprint(m)
	}
}

func (h *prettyHandler) status(code int) string {
	s := strconv.Itoa(code)
	switch {
	case code >= 500:
		return h.pal.red.Sprint(s)
	case code >= 400:
		return h.pal.yellow.Sprint(s)
	case code >= 300:
		return h.pal.cyan.Sprint(s)
	default:
		return h.pal.green.Sprint(s)
	}
}

func (h *prettyHandler) statusClass(class string) string {
	switch class {
	case "5xx":
		return h.pal.red.Sprint(class)
	case "4xx":
		return h.pal.yellow.Sprint(class)
	case "3xx":
		return h.pal.cyan.Sprint(class)
	default:
		return h.pal.green.Sprint(class)
	}
}

func (h *prettyHandler) duration(ms int64) string {
	s := strconv.FormatInt(ms, 10) + "ms"
	switch {
	case ms >= 1000:
		return h.pal.red.Sprint(s)
	case ms >= 100:
		return h.pal.yellow.Sprint(s)
	default:
		return h.pal.green.Sprint(s)
	}
}

func (h *prettyHandler) result(r string) string {
	switch r {
	case "success", "ok":
		return h.pal.green.Sprint(r)
	case "redirect":
		return h.pal.cyan.Sprint(r)
	case "server_error", "error":
		return h.pal.red.Sprint(r)
	default:
		return h.pal.yellow.Sprint(r)
	}
}

func remapPrettyKey(k string) string {
	switch k {
	case "status_class":
		return "class"
	case "duration_ms":
		return "duration"
	default:
		return k
	}
}

func valueToInt64(v slog.Value) (int64, bool) {
	switch v.Kind() {
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		u := v.Uint64()
		if u > 1<<62 {
			return 0, false
		}
		return int64(u), true // #nosec G115 -- bounded above.
	case slog.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func valueToString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprint(v.Any())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
