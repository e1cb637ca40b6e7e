package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nurpe/rental-desk/internal/apiclient"
	"github.com/nurpe/rental-desk/internal/model"
)

const (
	CodeOverlap     = "billing_period_overlap"
	CodeEmptyPeriod = "no_billable_items"
)

// OverlapRejection means an earlier billing already covers part of the
// requested period.
type OverlapRejection struct {
	Existing  model.BillingData
	Requested Period
	Message   string
}

func (r *OverlapRejection) Error() string {
	return "billing period overlaps an existing billing"
}

func (r *OverlapRejection) Explain() string {
	existing := r.Existing.InvoiceNumber
	if existing == "" {
		existing = fmt.Sprintf("#%d", r.Existing.ID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The requested period %s overlaps billing %s", r.Requested, existing)
	if p := PeriodOf(r.Existing); p.Valid() {
		fmt.Fprintf(&b, " covering %s", p)
	}
	b.WriteString(". Choose a period that does not overlap an existing billing.")
	if r.Message != "" {
		fmt.Fprintf(&b, " (%s)", r.Message)
	}
	return b.String()
}

// EmptyPeriodRejection means no billable items exist for the period.
type EmptyPeriodRejection struct {
	Requested Period
	Message   string
}

func (r *EmptyPeriodRejection) Error() string {
	return "no billable items for the requested period"
}

func (r *EmptyPeriodRejection) Explain() string {
	msg := fmt.Sprintf("No billable items were found for %s.", r.Requested)
	if r.Message != "" {
		msg += " (" + r.Message + ")"
	}
	return msg
}

type rejectionBody struct {
	Message         string             `json:"message"`
	Code            string             `json:"code"`
	ErrorType       string             `json:"error_type"`
	ExistingBilling *model.BillingData `json:"existing_billing"`
	RequestedPeriod *Period            `json:"requested_period"`
}

// ParseRejection recognises the two structured billing rejections in a
// backend validation error. Any other error is returned unchanged.
func ParseRejection(err error, requested Period) error {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || !errors.Is(apiErr, apiclient.ErrValidation) {
		return err
	}
	var body rejectionBody
	if decodeErr := apiErr.Decode(&body); decodeErr != nil {
		return err
	}
	if body.RequestedPeriod != nil {
		requested = *body.RequestedPeriod
	}
	code := strings.ToLower(firstNonEmpty(body.Code, body.ErrorType))

	switch {
	case code == CodeOverlap || body.ExistingBilling != nil:
		rejection := &OverlapRejection{Requested: requested, Message: body.Message}
		if body.ExistingBilling != nil {
			rejection.Existing = *body.ExistingBilling
		}
		return rejection
	case code == CodeEmptyPeriod:
		return &EmptyPeriodRejection{Requested: requested, Message: body.Message}
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
