package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/document"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/repository"
)

type stubRenderer struct {
	docs []document.Document
	err  error
}

func (r *stubRenderer) Generate(doc document.Document) ([]byte, error) {
	r.docs = append(r.docs, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

type memoryJournal struct {
	exports []model.DocumentExport
	err     error
}

func (j *memoryJournal) Create(_ context.Context, export *model.DocumentExport) error {
	if j.err != nil {
		return j.err
	}
	j.exports = append(j.exports, *export)
	return nil
}

func (j *memoryJournal) List(_ context.Context, filter repository.ExportFilter) ([]model.DocumentExport, error) {
	var out []model.DocumentExport
	for _, e := range j.exports {
		if filter.Kind == "" || e.Kind == filter.Kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func newDocumentBackend(t *testing.T) *fakeBackend {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/orders/5/delivery-note", http.StatusOK, `{"delivery_note": {
		"order_number": "Z-2024-005", "issue_date": "2024-05-02",
		"customer": {"name": "Stavby s.r.o.", "ico": "12345678"},
		"items": []
	}}`)
	backend.reply(http.MethodGet, "/api/write-offs/8", http.StatusOK, `{"write_off": {"id": 8, "reason": "lost", "items": []}}`)
	return backend
}

func TestRenderDocumentDispositionAndJournal(t *testing.T) {
	backend := newDocumentBackend(t)
	renderer := &stubRenderer{}
	journal := &memoryJournal{}
	svc := NewDocumentService(backend.client(), document.NewBuilder(model.Party{Name: "Půjčovna"}), renderer, journal, zerolog.Nop())

	preview, err := svc.Render(context.Background(), DocumentRequest{Kind: document.KindDeliveryNote, ID: 5, Principal: admin})
	require.NoError(t, err)
	assert.Equal(t, DispositionInline, preview.Disposition)
	assert.Equal(t, "Dodaci-list-Z-2024-005.pdf", preview.FileName)
	assert.Equal(t, PDFContentType, preview.ContentType)

	download, err := svc.Render(context.Background(), DocumentRequest{Kind: document.KindWriteOff, ID: 8, Download: true, Principal: admin})
	require.NoError(t, err)
	assert.Equal(t, DispositionAttachment, download.Disposition)
	assert.Equal(t, "Odpis-8.pdf", download.FileName)

	require.Len(t, renderer.docs, 2)
	assert.True(t, renderer.docs[0].Table.Empty())
	assert.Equal(t, "Půjčovna", renderer.docs[0].Supplier.Party.Name)

	exports, err := svc.Exports(context.Background(), ExportQuery{Kind: "write-off"})
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, DispositionAttachment, exports[0].Disposition)
	assert.Equal(t, "1", exports[0].UserID)
}

func TestRenderDocumentFailures(t *testing.T) {
	backend := newDocumentBackend(t)
	svc := NewDocumentService(backend.client(), document.NewBuilder(model.Party{}), &stubRenderer{}, nil, zerolog.Nop())

	_, err := svc.Render(context.Background(), DocumentRequest{Kind: "invoice", ID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Render(context.Background(), DocumentRequest{Kind: document.KindReturnNote, ID: 5})
	require.Error(t, err)

	_, err = svc.Exports(context.Background(), ExportQuery{})
	assert.ErrorIs(t, err, ErrJournalDisabled)

	broken := NewDocumentService(backend.client(), document.NewBuilder(model.Party{}), &stubRenderer{err: errors.New("boom")}, nil, zerolog.Nop())
	_, err = broken.Render(context.Background(), DocumentRequest{Kind: document.KindDeliveryNote, ID: 5})
	assert.EqualError(t, err, "boom")
}

func TestRenderDocumentSurvivesJournalFailure(t *testing.T) {
	backend := newDocumentBackend(t)
	svc := NewDocumentService(backend.client(), document.NewBuilder(model.Party{}), &stubRenderer{}, &memoryJournal{err: errors.New("db down")}, zerolog.Nop())

	result, err := svc.Render(context.Background(), DocumentRequest{Kind: document.KindDeliveryNote, ID: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
}
