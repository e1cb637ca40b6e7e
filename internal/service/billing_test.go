package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/billing"
	"github.com/nurpe/rental-desk/internal/excel"
)

const billingReply = `{"billing_data": {
	"id": 11, "order_id": 5, "invoice_number": "FA-2024-011",
	"billing_date": "2024-05-31", "billing_period_from": "2024-05-01", "billing_period_to": "2024-05-31",
	"items": [{"equipment_name": "Rám", "quantity": 10, "days": 31, "rate": "2.50", "amount": 775}],
	"total_amount": 775, "is_final_billing": true,
	"customer": {"name": "Stavby s.r.o."}
}}`

func newBillingService(t *testing.T, status string) (*BillingService, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/orders/5", http.StatusOK, `{"order": {"id": 5, "order_number": "Z-5", "status": "`+status+`"}}`)
	backend.reply(http.MethodGet, "/api/orders/5/billings", http.StatusOK, `{"billings": [
		{"id": 3, "invoice_number": "FA-2024-003", "billing_period_from": "2024-04-01", "billing_period_to": "2024-04-30"}
	]}`)
	backend.reply(http.MethodPost, "/api/orders/5/billing", http.StatusOK, billingReply)
	backend.reply(http.MethodPut, "/api/orders/5/status", http.StatusOK, `{"message": "ok"}`)

	svc := NewBillingService(backend.client(), excel.NewGenerator(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC) }
	return svc, backend
}

func finalConfig(t *testing.T) billing.Config {
	return billing.Config{BillingDate: date(t, "2024-05-31"), FinalBilling: true}
}

func TestGenerateFinalBillingCompletesActiveOrder(t *testing.T) {
	svc, backend := newBillingService(t, "active")

	result, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: finalConfig(t), Principal: admin})
	require.NoError(t, err)

	assert.Equal(t, "FA-2024-011", result.Billing.InvoiceNumber)
	assert.True(t, result.StatusUpdated)
	assert.False(t, result.FinalBillingDropped)
	assert.Equal(t, 1, backend.count(http.MethodPut, "/api/orders/5/status"))
	assert.Equal(t, "completed", backend.lastBody(t, http.MethodPut, "/api/orders/5/status")["status"])
	assert.Equal(t, true, backend.lastBody(t, http.MethodPost, "/api/orders/5/billing")["is_final_billing"])
}

func TestGenerateFinalBillingOnCompletedOrderIssuesNoStatusUpdate(t *testing.T) {
	svc, backend := newBillingService(t, "completed")

	result, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: finalConfig(t), Principal: admin})
	require.NoError(t, err)

	assert.True(t, result.FinalBillingDropped)
	assert.False(t, result.StatusUpdated)
	assert.Zero(t, backend.count(http.MethodPut, "/api/orders/5/status"))
	assert.Equal(t, false, backend.lastBody(t, http.MethodPost, "/api/orders/5/billing")["is_final_billing"])
}

func TestGenerateRejectsInvalidPeriodWithoutRequests(t *testing.T) {
	svc, backend := newBillingService(t, "active")

	tests := []struct {
		name   string
		cfg    billing.Config
		target error
	}{
		{
			name:   "reversed",
			cfg:    billing.Config{BillingDate: date(t, "2024-05-31"), UseCustomPeriod: true, PeriodFrom: date(t, "2024-05-20"), PeriodTo: date(t, "2024-05-01")},
			target: billing.ErrPeriodReversed,
		},
		{
			name:   "missing bound",
			cfg:    billing.Config{BillingDate: date(t, "2024-05-31"), UseCustomPeriod: true, PeriodFrom: date(t, "2024-05-01")},
			target: billing.ErrPeriodBoundsRequired,
		},
		{
			name:   "missing billing date",
			cfg:    billing.Config{},
			target: billing.ErrBillingDateRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: tt.cfg, Principal: admin})
			require.ErrorIs(t, err, tt.target)
			var verr *billing.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
	assert.Zero(t, backend.total())
}

func TestGenerateRejectsOverlapFromHistoryLocally(t *testing.T) {
	svc, backend := newBillingService(t, "active")

	cfg := billing.Config{
		BillingDate:     date(t, "2024-05-31"),
		UseCustomPeriod: true,
		PeriodFrom:      date(t, "2024-04-30"),
		PeriodTo:        date(t, "2024-05-15"),
	}
	_, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: cfg, Principal: admin})

	var overlap *billing.OverlapRejection
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, "FA-2024-003", overlap.Existing.InvoiceNumber)
	assert.Contains(t, overlap.Explain(), "2024-04-30 - 2024-05-15")
	assert.Zero(t, backend.count(http.MethodPost, "/api/orders/5/billing"))
}

func TestGenerateTranslatesEmptyPeriodRejection(t *testing.T) {
	svc, backend := newBillingService(t, "active")
	backend.reply(http.MethodPost, "/api/orders/5/billing", http.StatusBadRequest, `{"message": "No items", "code": "no_billable_items"}`)

	cfg := billing.Config{
		BillingDate:     date(t, "2024-05-31"),
		UseCustomPeriod: true,
		PeriodFrom:      date(t, "2024-05-01"),
		PeriodTo:        date(t, "2024-05-31"),
		FinalBilling:    true,
	}
	_, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: cfg, Principal: admin})

	var empty *billing.EmptyPeriodRejection
	require.True(t, errors.As(err, &empty))
	assert.Contains(t, empty.Explain(), "2024-05-01 - 2024-05-31")
	assert.Zero(t, backend.count(http.MethodPut, "/api/orders/5/status"))
}

func TestGenerateRequiresAdmin(t *testing.T) {
	svc, backend := newBillingService(t, "active")

	_, err := svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: finalConfig(t), Principal: operator})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, backend.total())
}

func TestGenerateRejectsConcurrentRunForSameOrder(t *testing.T) {
	svc, _ := newBillingService(t, "active")

	release, err := svc.guard.Acquire(5)
	require.NoError(t, err)
	defer release()

	_, err = svc.Generate(context.Background(), GenerateBillingInput{OrderID: 5, Config: finalConfig(t), Principal: admin})
	assert.ErrorIs(t, err, billing.ErrGenerationInProgress)
}

func TestBillingDefaults(t *testing.T) {
	svc, _ := newBillingService(t, "completed")

	defaults, err := svc.Defaults(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-31", defaults.Config.BillingDate.String())
	assert.Equal(t, "2024-05-31", defaults.LastDayOfMonth.String())
	assert.False(t, defaults.FinalBillingAllowed)
	assert.Len(t, defaults.History, 1)
}

func TestBillingWorkbook(t *testing.T) {
	svc, backend := newBillingService(t, "active")
	backend.reply(http.MethodGet, "/api/billings/11", http.StatusOK, `{"billing": {"id": 11, "order_id": 5, "invoice_number": "FA/2024/011", "items": []}}`)

	file, err := svc.Workbook(context.Background(), 5, 11)
	require.NoError(t, err)
	assert.Equal(t, "Vyuctovani-FA-2024-011.xlsx", file.FileName)
	assert.Equal(t, XLSXContentType, file.ContentType)
	assert.NotEmpty(t, file.Content)

	_, err = svc.Workbook(context.Background(), 6, 11)
	assert.ErrorIs(t, err, ErrNotFound)
}
