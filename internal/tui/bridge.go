package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/course-mirror/internal/model"
)

// errLoginCancelled is returned to the engine when the login form is dismissed.
var errLoginCancelled = errors.New("login cancelled")

// bridge lets the engine, running in a command goroutine, talk to the
// program: progress events are forwarded as messages and questions wait for
// the operator's answer on a reply channel.
type bridge struct {
	program *tea.Program
}

func (b *bridge) send(msg tea.Msg) {
	if b != nil && b.program != nil {
		b.program.Send(msg)
	}
}

type loginReply struct {
	creds model.Credentials
	err   error
}

// Prompt implements auth.Prompter with the login form.
func (b *bridge) Prompt(ctx context.Context, user string) (model.Credentials, error) {
	reply := make(chan loginReply, 1)
	b.send(LoginRequestMsg{User: user, reply: reply})
	select {
	case r := <-reply:
		return r.creds, r.err
	case <-ctx.Done():
		return model.Credentials{}, ctx.Err()
	}
}

// RetryPage implements download.FailurePolicy with the reconnect screen.
func (b *bridge) RetryPage(ctx context.Context, src model.Source, err error) bool {
	reply := make(chan bool, 1)
	b.send(RetryRequestMsg{Source: src.Name, Err: err, reply: reply})
	select {
	case retry := <-reply:
		return retry
	case <-ctx.Done():
		return false
	}
}
