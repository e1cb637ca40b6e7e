// Package listing filters already-fetched collections the way list screens
// do: a case-insensitive substring search over display fields plus optional
// categorical predicates.
package listing

import (
	"strings"

	"github.com/nurpe/rental-desk/internal/model"
)

const (
	EmptyCollectionMessage = "No records yet."
	NoMatchMessage         = "No records match the current filter."
)

type Predicate[T any] func(T) bool

// Page is the filtered view of a collection. EmptyMessage is set whenever
// Items is empty so the caller always has something to render.
type Page[T any] struct {
	Items        []T    `json:"items"`
	Total        int    `json:"total"`
	Matched      int    `json:"matched"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

func Apply[T any](items []T, query string, fields func(T) []string, predicates ...Predicate[T]) Page[T] {
	needle := strings.ToLower(strings.TrimSpace(query))
	result := make([]T, 0, len(items))

	for _, item := range items {
		if !matchesAll(item, predicates) {
			continue
		}
		if needle != "" && !containsAny(fields(item), needle) {
			continue
		}
		result = append(result, item)
	}

	page := Page[T]{Items: result, Total: len(items), Matched: len(result)}
	switch {
	case len(items) == 0:
		page.EmptyMessage = EmptyCollectionMessage
	case len(result) == 0:
		page.EmptyMessage = NoMatchMessage
	}
	return page
}

func matchesAll[T any](item T, predicates []Predicate[T]) bool {
	for _, p := range predicates {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Equals keeps items whose key equals want; an empty want disables the filter.
func Equals[T any](want string, key func(T) string) Predicate[T] {
	if strings.TrimSpace(want) == "" {
		return nil
	}
	return func(item T) bool {
		return strings.EqualFold(key(item), want)
	}
}

// InSet keeps items whose id is a member of ids; nil ids disables the filter.
func InSet[T any](ids []int64, key func(T) int64) Predicate[T] {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(item T) bool {
		_, ok := set[key(item)]
		return ok
	}
}

// DateWithin keeps items whose date falls in [from, to]; zero bounds are open.
// Items without a date are dropped once any bound is set.
func DateWithin[T any](from, to model.Date, key func(T) model.Date) Predicate[T] {
	if !from.Valid() && !to.Valid() {
		return nil
	}
	return func(item T) bool {
		d := key(item)
		if !d.Valid() {
			return false
		}
		if from.Valid() && d.Time.Before(from.Time) {
			return false
		}
		if to.Valid() && d.Time.After(to.Time) {
			return false
		}
		return true
	}
}
