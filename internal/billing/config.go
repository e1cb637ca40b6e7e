// Package billing holds the period-reconciliation rules applied before a
// billing statement is requested from the backend, and the interpretation of
// the backend's rejections.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/nurpe/rental-desk/internal/model"
)

var (
	ErrBillingDateRequired  = errors.New("billing date is required")
	ErrPeriodBoundsRequired = errors.New("both period bounds are required for a custom period")
	ErrPeriodReversed       = errors.New("period_from must be on or before period_to")
)

// ValidationError wraps one of the sentinel errors above with details.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type Config struct {
	BillingDate         model.Date `json:"billing_date"`
	UseCustomPeriod     bool       `json:"use_custom_period"`
	PeriodFrom          model.Date `json:"period_from"`
	PeriodTo            model.Date `json:"period_to"`
	IncludeReturnedOnly bool       `json:"include_returned_only"`
	FinalBilling        bool       `json:"is_final_billing"`
}

// DefaultConfig bills as of today with an automatically derived period.
func DefaultConfig(now time.Time) Config {
	return Config{BillingDate: model.NewDate(now)}
}

func LastDayOfMonth(t time.Time) model.Date {
	y, m, _ := t.Date()
	return model.NewDate(time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC))
}

// Validate runs before any request is made.
func (c Config) Validate() error {
	if !c.BillingDate.Valid() {
		return &ValidationError{Err: ErrBillingDateRequired}
	}
	if !c.UseCustomPeriod {
		return nil
	}
	switch {
	case !c.PeriodFrom.Valid() && !c.PeriodTo.Valid():
		return &ValidationError{Err: ErrPeriodBoundsRequired, Details: "period_from and period_to are empty"}
	case !c.PeriodFrom.Valid():
		return &ValidationError{Err: ErrPeriodBoundsRequired, Details: "period_from is empty"}
	case !c.PeriodTo.Valid():
		return &ValidationError{Err: ErrPeriodBoundsRequired, Details: "period_to is empty"}
	}
	if c.PeriodFrom.Time.After(c.PeriodTo.Time) {
		return &ValidationError{
			Err:     ErrPeriodReversed,
			Details: fmt.Sprintf("%s is after %s", c.PeriodFrom, c.PeriodTo),
		}
	}
	return nil
}

// FinalBillingAllowed reports whether the final-billing control is enabled for
// an order in the given status.
func FinalBillingAllowed(status model.OrderStatus) bool {
	return status != model.OrderStatusCompleted
}

// ForOrder drops the final-billing flag for orders that are already
// completed; requesting it again is a no-op rather than an error.
func (c Config) ForOrder(status model.OrderStatus) Config {
	if !FinalBillingAllowed(status) {
		c.FinalBilling = false
	}
	return c
}

// RequestedPeriod returns the manually chosen period, if any.
func (c Config) RequestedPeriod() (Period, bool) {
	if !c.UseCustomPeriod {
		return Period{}, false
	}
	return Period{From: c.PeriodFrom, To: c.PeriodTo}, true
}

type Request struct {
	BillingDate         string `json:"billing_date"`
	UseCustomPeriod     bool   `json:"use_custom_period"`
	PeriodFrom          string `json:"period_from,omitempty"`
	PeriodTo            string `json:"period_to,omitempty"`
	IncludeReturnedOnly bool   `json:"include_returned_only"`
	IsFinalBilling      bool   `json:"is_final_billing"`
}

func (c Config) Request() Request {
	req := Request{
		BillingDate:         c.BillingDate.String(),
		UseCustomPeriod:     c.UseCustomPeriod,
		IncludeReturnedOnly: c.IncludeReturnedOnly,
		IsFinalBilling:      c.FinalBilling,
	}
	if c.UseCustomPeriod {
		req.PeriodFrom = c.PeriodFrom.String()
		req.PeriodTo = c.PeriodTo.String()
	}
	return req
}
