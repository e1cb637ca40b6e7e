package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/validation"
)

var (
	admin    = model.Principal{UserID: "1", Role: model.RoleAdmin, Token: "t"}
	operator = model.Principal{UserID: "2", Role: model.RoleUser, Token: "t"}
)

type recordedCall struct {
	Method string
	Path   string
	Body   string
}

// fakeBackend serves canned JSON per "METHOD /path" and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  []recordedCall
	srv    *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{routes: make(map[string]func(w http.ResponseWriter, r *http.Request))}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		handler, ok := f.routes[key]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBackend) reply(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeBackend) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) lastBody(t *testing.T, method, path string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(f.calls[i].Body), &body))
			return body
		}
	}
	t.Fatalf("no %s %s call recorded", method, path)
	return nil
}

func (f *fakeBackend) client() *apiclient.Client {
	return apiclient.New(apiclient.Options{
		BaseURL:      f.srv.URL,
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Millisecond,
	}, zerolog.Nop())
}

func newValidator() *validation.Validator {
	return validation.New()
}

func date(t *testing.T, raw string) model.Date {
	t.Helper()
	d, err := model.ParseDate(raw)
	require.NoError(t, err)
	return d
}
