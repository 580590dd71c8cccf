package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/handiism/course-mirror/internal/model"
	"golang.org/x/term"
)

// ErrNoInput is returned when the input closes before a username was read.
var ErrNoInput = errors.New("no input for credentials")

// TerminalPrompter reads a username from In and a password without echo.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	// ReadPassword reads one line without echoing it. Defaults to reading
	// from the controlling terminal on stdin.
	ReadPassword func() ([]byte, error)

	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter bound to stdin and stderr.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		In:  os.Stdin,
		Out: os.Stderr,
		ReadPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
}

// Prompt asks for the username (unless preset) and then the password.
func (p *TerminalPrompter) Prompt(ctx context.Context, user string) (model.Credentials, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	if user == "" {
		fmt.Fprint(p.Out, "Enter your login: ")
		line, err := p.reader.ReadString('\n')
		user = strings.TrimSpace(line)
		if user == "" {
			if err == nil || err == io.EOF {
				return model.Credentials{}, ErrNoInput
			}
			return model.Credentials{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return model.Credentials{}, err
	}

	fmt.Fprintf(p.Out, "Enter the password for %s (hidden): ", user)
	pass, err := p.ReadPassword()
	fmt.Fprintln(p.Out)
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading password: %w", err)
	}

	return model.Credentials{Username: user, Password: string(pass)}, nil
}
