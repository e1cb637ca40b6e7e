// Package resource maps backend REST collections onto typed Go values.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("invalid id")

// Backend is the subset of the API client used by resources.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Resource is one `/api/<plural>` collection. List responses are keyed by the
// plural name and detail responses by the singular name.
type Resource[T any] struct {
	backend  Backend
	path     string
	singular string
	plural   string
}

func New[T any](backend Backend, path, singular, plural string) *Resource[T] {
	return &Resource[T]{
		backend:  backend,
		path:     "/api/" + strings.Trim(path, "/"),
		singular: singular,
		plural:   plural,
	}
}

func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) ItemPath(id int64, suffix ...string) string {
	p := r.path + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + strings.Trim(s, "/")
	}
	return p
}

func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	return r.ListAt(ctx, r.path, query)
}

// ListAt lists records of this type from a nested path, e.g. the orders of one
// customer.
func (r *Resource[T]) ListAt(ctx context.Context, path string, query url.Values) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := r.backend.Get(ctx, path, query, &envelope); err != nil {
		return nil, err
	}
	items := make([]T, 0)
	raw, ok := envelope[r.plural]
	if !ok || isNull(raw) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.plural, err)
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var envelope map[string]json.RawMessage
	if err := r.backend.Get(ctx, r.ItemPath(id), nil, &envelope); err != nil {
		return nil, err
	}
	return r.unwrap(envelope)
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := r.backend.Post(ctx, r.path, map[string]any{r.singular: payload}, &envelope); err != nil {
		return nil, err
	}
	return r.unwrap(envelope)
}

func (r *Resource[T]) Update(ctx context.Context, id int64, payload any) (*T, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var envelope map[string]json.RawMessage
	if err := r.backend.Put(ctx, r.ItemPath(id), map[string]any{r.singular: payload}, &envelope); err != nil {
		return nil, err
	}
	return r.unwrap(envelope)
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return r.backend.Delete(ctx, r.ItemPath(id), nil)
}

// Action posts to a sub-route of one record, e.g. /api/equipment/5/sell, and
// decodes the response into out.
func (r *Resource[T]) Action(ctx context.Context, id int64, action string, payload, out any) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return r.backend.Post(ctx, r.ItemPath(id, action), payload, out)
}

func (r *Resource[T]) unwrap(envelope map[string]json.RawMessage) (*T, error) {
	raw, ok := envelope[r.singular]
	if !ok || isNull(raw) {
		// some mutations reply with a bare message; the caller refetches
		return nil, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.singular, err)
	}
	return &item, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// ParseID validates a numeric route parameter before it is used in a request.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
