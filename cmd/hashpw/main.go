// Command hashpw prints a PORTFOLIO_ASSET_PASSWORD_HASH value for a password.
//
// Usage:
//
//	hashpw [--bcrypt] [--cost N] [--stdin] [password]
//
// Without a positional password it prompts twice without echo.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, promptTerminal))
}
