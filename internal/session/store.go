package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// CookieStore keeps the token in a browser cookie under a fixed name.
type CookieStore struct {
	c      *gin.Context
	name   string
	secure bool
}

func NewCookieStore(c *gin.Context, name string, secure bool) *CookieStore {
	return &CookieStore{c: c, name: name, secure: secure}
}

func (s *CookieStore) Load() (string, error) {
	value, err := s.c.Cookie(s.name)
	if err == http.ErrNoCookie {
		return "", nil
	}
	return value, err
}

func (s *CookieStore) Save(token string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, token, 0, "/", "", s.secure, true)
	return nil
}

func (s *CookieStore) Clear() error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
	return nil
}

// RedirectRecorder is the gateway's Navigator: the redirect target and its
// delay are reported back to the operator in the response instead of being
// followed.
type RedirectRecorder struct {
	mu       sync.Mutex
	location string
	target   string
	delay    time.Duration
}

func NewRedirectRecorder(location string) *RedirectRecorder {
	return &RedirectRecorder{location: location}
}

func (r *RedirectRecorder) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

func (r *RedirectRecorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = route
	r.location = route
	r.delay = 0
}

func (r *RedirectRecorder) Schedule(route string, after time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = route
	r.delay = after
}

func (r *RedirectRecorder) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}

func (r *RedirectRecorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}
