package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/document"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/repository"
	"github.com/nurpe/rental-desk/internal/resource"
)

const (
	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
)

type FileResult struct {
	FileName    string
	ContentType string
	Disposition string
	Content     []byte
}

type Renderer interface {
	Generate(doc document.Document) ([]byte, error)
}

// ExportJournal records generated documents.
type ExportJournal interface {
	Create(ctx context.Context, export *model.DocumentExport) error
	List(ctx context.Context, filter repository.ExportFilter) ([]model.DocumentExport, error)
}

type DocumentService struct {
	backend  resource.Backend
	builder  *document.Builder
	renderer Renderer
	journal  ExportJournal
	log      zerolog.Logger
}

// NewDocumentService wires the document pipeline; journal may be nil.
func NewDocumentService(backend resource.Backend, builder *document.Builder, renderer Renderer, journal ExportJournal, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		backend:  backend,
		builder:  builder,
		renderer: renderer,
		journal:  journal,
		log:      log,
	}
}

type DocumentRequest struct {
	Kind      document.Kind
	ID        int64
	Download  bool
	Principal model.Principal
}

// Render fetches the note payload of the requested kind and lays it out as a
// PDF, either for inline preview or as a download.
func (s *DocumentService) Render(ctx context.Context, req DocumentRequest) (*FileResult, error) {
	if err := checkID(req.ID); err != nil {
		return nil, err
	}
	doc, err := s.build(ctx, req.Kind, req.ID)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Generate(*doc)
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(req.Kind)).Int64("id", req.ID).Msg("render document failed")
		return nil, err
	}

	result := &FileResult{
		FileName:    doc.FileName,
		ContentType: PDFContentType,
		Disposition: DispositionInline,
		Content:     content,
	}
	if req.Download {
		result.Disposition = DispositionAttachment
	}
	s.record(ctx, req, doc, result)
	return result, nil
}

func (s *DocumentService) build(ctx context.Context, kind document.Kind, id int64) (*document.Document, error) {
	var doc document.Document
	switch kind {
	case document.KindDeliveryNote:
		note, err := fetchOne[model.DeliveryNote](ctx, s.backend, fmt.Sprintf("/api/orders/%d/delivery-note", id), "delivery_note")
		if err != nil {
			return nil, err
		}
		doc = s.builder.DeliveryNote(*note)
	case document.KindReturnNote:
		note, err := fetchOne[model.ReturnNote](ctx, s.backend, fmt.Sprintf("/api/orders/%d/return-note", id), "return_note")
		if err != nil {
			return nil, err
		}
		doc = s.builder.ReturnNote(*note)
	case document.KindBillingStatement:
		data, err := fetchOne[model.BillingData](ctx, s.backend, fmt.Sprintf("/api/billings/%d", id), "billing")
		if err != nil {
			return nil, err
		}
		doc = s.builder.BillingStatement(*data)
	case document.KindWriteOff:
		record, err := fetchOne[model.WriteOff](ctx, s.backend, fmt.Sprintf("/api/write-offs/%d", id), "write_off")
		if err != nil {
			return nil, err
		}
		doc = s.builder.WriteOff(*record)
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, kind)
	}
	return &doc, nil
}

func (s *DocumentService) record(ctx context.Context, req DocumentRequest, doc *document.Document, result *FileResult) {
	if s.journal == nil {
		return
	}
	export := &model.DocumentExport{
		Kind:        string(req.Kind),
		Number:      doc.Number,
		FileName:    result.FileName,
		Disposition: result.Disposition,
		SizeBytes:   len(result.Content),
		UserID:      req.Principal.UserID,
	}
	if err := s.journal.Create(ctx, export); err != nil {
		s.log.Error().Err(err).Str("file", result.FileName).Msg("failed to record document export")
	}
}

type ExportQuery struct {
	Kind   string
	Number string
	Limit  int
}

func (s *DocumentService) Exports(ctx context.Context, query ExportQuery) ([]model.DocumentExport, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	if query.Kind != "" {
		if _, err := document.ParseKind(query.Kind); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return s.journal.List(ctx, repository.ExportFilter{
		Kind:   query.Kind,
		Number: query.Number,
		Limit:  query.Limit,
	})
}

// fetchOne reads a single payload keyed by name from a non-collection route.
func fetchOne[T any](ctx context.Context, backend resource.Backend, path, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := backend.Get(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[key]
	if !ok || strings.TrimSpace(string(raw)) == "null" {
		return nil, ErrNotFound
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &item, nil
}
