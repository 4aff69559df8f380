package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-secure-stdlib/password"
	"github.com/jessevdk/go-flags"

	pwhash "portfolio/cmd/security/password"
)

type options struct {
	Bcrypt   bool `long:"bcrypt" description:"emit a bcrypt hash instead of Argon2id"`
	Cost     int  `long:"cost" description:"bcrypt cost (4-31); defaults to PORTFOLIO_BCRYPT_COST or 10"`
	Stdin    bool `long:"stdin" description:"read the password from the first line of stdin"`
	NoPolicy bool `long:"no-policy" description:"skip the minimum length and weak password checks"`

	Args struct {
		Password string `positional-arg-name:"password"`
	} `positional-args:"yes"`
}

var errMismatch = errors.New("passwords do not match")

// promptFunc reads a password interactively. confirm is true for the
// second read.
type promptFunc func(stderr io.Writer, confirm bool) (string, error)

func promptTerminal(stderr io.Writer, confirm bool) (string, error) {
	if confirm {
		_, _ = fmt.Fprint(stderr, "Confirm password: ")
	} else {
		_, _ = fmt.Fprint(stderr, "Password (input hidden): ")
	}
	v, err := password.Read(os.Stdin)
	_, _ = fmt.Fprintln(stderr)
	return v, err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, prompt promptFunc) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "hashpw"
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, err)
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	errc := color.New(color.FgRed, color.Bold)

	secret, err := readSecret(opts, stdin, stderr, prompt)
	if err != nil {
		_, _ = errc.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	cfg, err := pwhash.FromEnv()
	if err != nil {
		_, _ = errc.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if opts.NoPolicy {
		cfg.Policy.MinLength = 1
		cfg.Policy.RejectVeryWeak = false
	}
	if opts.Cost > 0 {
		cfg.BcryptCost = opts.Cost
	}

	var hash string
	if opts.Bcrypt {
		hash, err = cfg.HashBcrypt(secret)
	} else {
		hash, err = cfg.Hash(secret)
	}
	if err != nil {
		_, _ = errc.Fprintf(stderr, "error: %v\n", describe(err, cfg))
		return 1
	}

	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	_, _ = ok.Fprintln(stderr, "Password hash generated.")
	_, _ = fmt.Fprintf(stdout, "PORTFOLIO_ASSET_PASSWORD_HASH='%s'\n", hash)
	_, _ = warn.Fprintln(stderr, "Keep this value out of version control.")
	if opts.Args.Password != "" {
		_, _ = warn.Fprintln(stderr, "The password was passed as an argument and may be in your shell history.")
	}
	return 0
}

func readSecret(opts options, stdin io.Reader, stderr io.Writer, prompt promptFunc) (string, error) {
	switch {
	case opts.Args.Password != "":
		return opts.Args.Password, nil
	case opts.Stdin:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errors.New("empty password on stdin")
		}
		return line, nil
	}

	first, err := prompt(stderr, false)
	if err != nil {
		return "", fmt.Errorf("read password (is this a terminal?): %w", err)
	}
	second, err := prompt(stderr, true)
	if err != nil {
		return "", fmt.Errorf("read password (is this a terminal?): %w", err)
	}
	if first != second {
		return "", errMismatch
	}
	return first, nil
}

func describe(err error, cfg pwhash.Config) error {
	switch {
	case errors.Is(err, pwhash.ErrPasswordTooShort):
		return fmt.Errorf("password must be at least %d characters", cfg.Policy.MinLength)
	case errors.Is(err, pwhash.ErrPasswordTooLong):
		return fmt.Errorf("password too long (max %d characters, 72 bytes for bcrypt)", cfg.Policy.MaxLength)
	case errors.Is(err, pwhash.ErrWeakPassword):
		return errors.New("password is too weak")
	default:
		return err
	}
}
