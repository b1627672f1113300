package services

import (
	"context"

	"playpartner-backend-go/internal/vetting"
)

// Dashboard recomputes every partner view and buckets the result.
func (s *Store) Dashboard(ctx context.Context) (vetting.Dashboard, error) {
	partners, err := s.ListPartners(ctx)
	if err != nil {
		return vetting.Dashboard{}, err
	}
	return vetting.Summarize(partners), nil
}
