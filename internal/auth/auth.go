// Package auth obtains the login used for Basic Authentication.
//
// A Store asks its Prompter once, on first demand, and hands out the cached
// pair afterwards. Sources that do not require authentication never call it,
// so a run over public sources never prompts.
package auth

import (
	"context"
	"sync"

	"github.com/handiism/course-mirror/internal/model"
	"golang.org/x/sync/singleflight"
)

// Prompter asks the operator for credentials. user is the preset username,
// empty when the operator must type one.
type Prompter interface {
	Prompt(ctx context.Context, user string) (model.Credentials, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, user string) (model.Credentials, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(ctx context.Context, user string) (model.Credentials, error) {
	return f(ctx, user)
}

// Store lazily obtains and caches credentials for one run.
type Store struct {
	prompter Prompter
	user     string

	mu    sync.Mutex
	creds *model.Credentials
	group singleflight.Group
}

// NewStore creates a Store. A non-empty user is offered to the prompter so
// that only the password has to be typed.
func NewStore(prompter Prompter, user string) *Store {
	return &Store{prompter: prompter, user: user}
}

// Credentials returns the cached pair, prompting on first call.
//
// Concurrent first callers share a single prompt. A failed prompt is not
// cached; the next call asks again.
func (s *Store) Credentials(ctx context.Context) (model.Credentials, error) {
	if c, ok := s.cached(); ok {
		return c, nil
	}

	v, err, _ := s.group.Do("credentials", func() (interface{}, error) {
		if c, ok := s.cached(); ok {
			return c, nil
		}
		c, err := s.prompter.Prompt(ctx, s.user)
		if err != nil {
			return model.Credentials{}, err
		}
		s.mu.Lock()
		s.creds = &c
		s.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return model.Credentials{}, err
	}
	return v.(model.Credentials), nil
}

func (s *Store) cached() (model.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return model.Credentials{}, false
	}
	return *s.creds, true
}
