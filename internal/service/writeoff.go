package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

type WriteOffService struct {
	writeOffs *resource.Resource[model.WriteOff]
	log       zerolog.Logger
}

func NewWriteOffService(backend resource.Backend, log zerolog.Logger) *WriteOffService {
	return &WriteOffService{
		writeOffs: resource.New[model.WriteOff](backend, "write-offs", "write_off", "write_offs"),
		log:       log,
	}
}

type WriteOffFilter struct {
	Query  string
	Reason string
	From   model.Date
	To     model.Date
}

func (s *WriteOffService) List(ctx context.Context, filter WriteOffFilter) (listing.Page[model.WriteOff], error) {
	writeOffs, err := s.writeOffs.List(ctx, nil)
	if err != nil {
		return listing.Page[model.WriteOff]{}, err
	}
	return listing.Apply(writeOffs, filter.Query,
		func(w model.WriteOff) []string {
			fields := []string{w.Number(), w.Note.String, w.CreatedBy.String}
			for _, item := range w.Items {
				fields = append(fields, item.EquipmentName, item.InventoryNumber.String)
			}
			return fields
		},
		listing.Equals(filter.Reason, func(w model.WriteOff) string { return string(w.Reason) }),
		listing.DateWithin(filter.From, filter.To, func(w model.WriteOff) model.Date { return w.Date }),
	), nil
}

func (s *WriteOffService) Get(ctx context.Context, id int64) (*model.WriteOff, error) {
	return mustExist(s.writeOffs.Get(ctx, id))
}

// Delete removes the record; the backend returns the quantities to stock.
func (s *WriteOffService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if err := s.writeOffs.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("write_off_id", id).Msg("delete write-off failed")
		return err
	}
	return nil
}
