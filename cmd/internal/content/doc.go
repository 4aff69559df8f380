// Package content routes page requests by client type.
//
// Command-line clients (matched by User-Agent) receive ANSI text pages read
// from the content directory; browsers receive the HTML shell or a redirect
// to the matching section of it. Everything else falls through to the static
// file tree, which never exposes the protected asset directory.
package content
