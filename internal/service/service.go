// Package service implements the operator workflows on top of the backend
// REST API: list, detail and form handling per entity, billing and document
// generation.
package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

// Backend is the API client as seen by services.
type Backend interface {
	resource.Backend
	Upload(ctx context.Context, path, field, fileName string, content []byte, fields map[string]string, out any) error
	Download(ctx context.Context, path string, query url.Values) ([]byte, string, error)
}

// requireAdmin re-checks the role before a mutating call. The backend
// enforces the same rule.
func requireAdmin(p model.Principal) error {
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

func mustExist[T any](item *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func checkID(id int64) error {
	if id <= 0 {
		return resource.ErrInvalidID
	}
	return nil
}

func idQuery(key string, id int64) url.Values {
	return url.Values{key: []string{strconv.FormatInt(id, 10)}}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// degraded reports whether a read failure may fall back to an empty related
// collection instead of failing the whole detail view.
func degraded(err error) bool {
	return err != nil && !errors.Is(err, apiclient.ErrUnauthorized) && !errors.Is(err, context.Canceled)
}
