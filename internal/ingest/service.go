package ingest

import (
	"context"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"
)

// Ingester creates one commerce unless it already exists.
type Ingester interface {
	Ingest(ctx context.Context, in domain.Input) (bool, error)
}

// Result counts what happened to a batch.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type Service struct {
	commerces Ingester
	val       *validator.Validator
	log       *logger.Logger
}

func NewService(commerces Ingester, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{commerces: commerces, val: val, log: log}
}

// IngestBatch stores every item in order. Duplicates and items that fail
// validation are skipped; a storage failure stops the batch.
func (s *Service) IngestBatch(ctx context.Context, items []CommerceItem) (Result, error) {
	var res Result
	for i, item := range items {
		if err := s.val.Struct(item); err != nil {
			s.log.Warn("ingest item rejected", "index", i, "fields", validator.FieldErrors(err))
			res.Skipped++
			continue
		}
		created, err := s.commerces.Ingest(ctx, item.input())
		switch {
		case apperr.Is(err, apperr.KindValidation):
			s.log.Warn("ingest item rejected", "index", i, "error", err)
			res.Skipped++
		case err != nil:
			return res, err
		case created:
			res.Created++
		default:
			res.Skipped++
		}
	}
	s.log.Info("commerces ingested", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
