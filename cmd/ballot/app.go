// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/authflow"
	"github.com/VENUHARGI/OnlineVoting/clientconfig"
	"github.com/VENUHARGI/OnlineVoting/diagnostics"
	"github.com/VENUHARGI/OnlineVoting/otp"
	"github.com/VENUHARGI/OnlineVoting/session"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

const usage = `Usage: ballot <command> [flags]

Commands:
  signup                     create an account and verify it
  login [--remember]         sign in (a code is sent to your email)
  verify --purpose P         enter a code (P: signup, login, reset)
  resend --purpose P         request a new code
  forgot                     reset a forgotten password
  vote                       cast your vote
  receipt [--save DIR]       show or save your vote receipt
  results ID                 show results for a constituency
  status                     show session and voting status
  logout                     sign out
  doctor                     check the voting service
`

// errSilent marks failures that were already reported to the user
var errSilent = errors.New("reported")

type app struct {
	cfg    *clientconfig.Config
	out    io.Writer
	logger *slog.Logger
	lines  *lineReader
	secret func(prompt string) (string, error)
	store  *session.Store
	api    *apiclient.Client
	auth   *authflow.Flow
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	cfg, err := clientconfig.Load()
	if err != nil {
		fmt.Fprintln(stderr, "Configuration error:", err)
		return 1
	}
	a := newApp(cfg, stdin, stdout, stderr)

	commands := map[string]func(context.Context, []string) error{
		"signup":  a.signup,
		"login":   a.login,
		"verify":  a.verify,
		"resend":  a.resend,
		"forgot":  a.forgot,
		"vote":    a.vote,
		"receipt": a.receipt,
		"results": a.results,
		"status":  a.status,
		"logout":  a.logout,
		"doctor":  a.doctor,
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errSilent) {
			a.report(err)
		}
		return 1
	}
	return 0
}

func newApp(cfg *clientconfig.Config, stdin io.Reader, stdout, stderr io.Writer) *app {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store := session.NewStore(
		session.NewFileStorage(cfg.SessionPath()),
		session.NewFileStorage(cfg.TabPath(os.Getppid())),
	)
	api := apiclient.New(cfg.APIURL, store,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(logger),
	)

	a := &app{
		cfg:    cfg,
		out:    stdout,
		logger: logger,
		lines:  &lineReader{r: bufio.NewReader(stdin)},
		store:  store,
		api:    api,
		auth:   authflow.New(api, store, logger),
	}
	a.secret = a.promptLine
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.secret = func(prompt string) (string, error) {
			fmt.Fprint(a.out, prompt)
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(a.out)
			return string(b), err
		}
	}
	return a
}

func (a *app) otpConfig() otp.Config {
	return otp.Config{
		Expiry:         a.cfg.OTPExpiry,
		ResendCooldown: a.cfg.ResendCooldown,
		Lockout:        a.cfg.LockoutCooldown,
		Logger:         a.logger,
	}
}

// report prints err the way the error page would
func (a *app) report(err error) {
	var form *validate.Errors
	if errors.As(err, &form) {
		for _, field := range form.Fields() {
			fmt.Fprintf(a.out, "  %s: %s\n", field, form.Get(field))
		}
		return
	}

	page := diagnostics.ForError(err)
	fmt.Fprintf(a.out, "%s: %s\n", page.Title, page.Message)
	if page.Code != "" {
		fmt.Fprintf(a.out, "Error code: %s\n", page.Code)
	}
	for _, act := range page.Actions {
		if act.ID != diagnostics.ActionRetry {
			continue
		}
		if act.ClearSession {
			if err := a.store.Clear(); err != nil {
				a.logger.Warn("failed to clear session", "error", err)
			}
		}
		switch {
		case act.SignIn:
			fmt.Fprintln(a.out, "Run 'ballot login' to sign in.")
		default:
			fmt.Fprintln(a.out, "Try again, or run 'ballot doctor' to check the service.")
		}
	}
	a.logger.Debug("command failed", "kind", page.Kind, "error", err)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) promptLine(prompt string) (string, error) {
	return a.prompt(context.Background(), prompt)
}

func (a *app) prompt(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	return a.lines.ReadLine(ctx)
}

func (a *app) confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := a.prompt(ctx, prompt+" [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

type lineResult struct {
	line string
	err  error
}

// lineReader reads stdin one line at a time, on demand, so a prompt can
// wait for input and timers together. At most one read is outstanding.
type lineReader struct {
	r       *bufio.Reader
	pending chan lineResult
}

func (l *lineReader) next() <-chan lineResult {
	if l.pending == nil {
		ch := make(chan lineResult, 1)
		l.pending = ch
		go func() {
			s, err := l.r.ReadString('\n')
			if err == io.EOF && s != "" {
				err = nil
			}
			ch <- lineResult{line: strings.TrimSpace(s), err: err}
		}()
	}
	return l.pending
}

func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case res := <-l.next():
		l.pending = nil
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
