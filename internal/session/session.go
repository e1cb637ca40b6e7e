// Package session carries the operator's bearer token through a request.
//
// A Session replaces a process-wide default header: each request owns one,
// attached to its context, and the API client reads the token from there.
package session

import (
	"context"
	"sync"
	"time"
)

// Store persists the token under a fixed key.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Navigator moves the operator to another route.
type Navigator interface {
	Location() string
	Navigate(route string)
}

// Scheduler is a Navigator that performs delayed redirects itself.
type Scheduler interface {
	Schedule(route string, after time.Duration)
}

type Options struct {
	LoginRoute    string
	RedirectDelay time.Duration
}

type Session struct {
	store Store
	nav   Navigator
	opts  Options

	mu      sync.Mutex
	token   string
	loaded  bool
	expired bool
	timer   *time.Timer
}

func New(store Store, nav Navigator, opts Options) *Session {
	if opts.LoginRoute == "" {
		opts.LoginRoute = "/login"
	}
	return &Session{store: store, nav: nav, opts: opts}
}

// Token returns the current token, loading it from the store once.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return ""
	}
	if !s.loaded {
		s.loaded = true
		if s.store != nil {
			if token, err := s.store.Load(); err == nil {
				s.token = token
			}
		}
	}
	return s.token
}

func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true
	s.expired = false
	if s.store == nil {
		return nil
	}
	return s.store.Save(token)
}

// Expire handles a rejected token: the stored token is cleared at once and,
// unless the operator already is on the login route, navigation to it
// happens after the configured delay.
func (s *Session) Expire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	s.expired = true

	var err error
	if s.store != nil {
		err = s.store.Clear()
	}

	if s.nav == nil || s.timer != nil {
		return err
	}
	if s.nav.Location() == s.opts.LoginRoute {
		return err
	}
	route := s.opts.LoginRoute
	nav := s.nav
	if sched, ok := nav.(Scheduler); ok {
		sched.Schedule(route, s.opts.RedirectDelay)
		return err
	}
	if s.opts.RedirectDelay <= 0 {
		nav.Navigate(route)
		return err
	}
	s.timer = time.AfterFunc(s.opts.RedirectDelay, func() {
		nav.Navigate(route)
	})
	return err
}

func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// Logout clears the token without scheduling a redirect.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

func (s *Session) LoginRoute() string {
	return s.opts.LoginRoute
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
