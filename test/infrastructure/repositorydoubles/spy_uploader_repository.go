//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// SpyUploaderRepository implements repositories.UploaderRepository and records requests.
type SpyUploaderRepository struct {
	Err      error
	Requests []entities.UploadRequest
}

var _ repositories.UploaderRepository = (*SpyUploaderRepository)(nil)

func (s *SpyUploaderRepository) Upload(_ context.Context, _ entities.PublishSettings, req entities.UploadRequest) error {
	s.Requests = append(s.Requests, req)
	return s.Err
}
