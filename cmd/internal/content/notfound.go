package content

import (
	"strings"

	"github.com/fatih/color"
)

// NotFoundText is the plain-text 404 page for terminal clients. host is the
// address the client used to reach the server, used in the usage hints.
// Colors are always emitted since the response goes to the client's
// terminal, not ours.
func NotFoundText(host string) string {
	if host == "" {
		host = "localhost"
	}

	title := color.New(color.FgRed, color.Bold)
	title.EnableColor()
	cmd := color.New(color.FgCyan)
	cmd.EnableColor()

	var b strings.Builder
	b.WriteString(title.Sprint("404 - Not Found"))
	b.WriteString("\nTry: ")
	b.WriteString(cmd.Sprint("curl " + host + "/projects"))
	b.WriteString(" or ")
	b.WriteString(cmd.Sprint("curl " + host + "/resume"))
	b.WriteString("\n")
	return b.String()
}
