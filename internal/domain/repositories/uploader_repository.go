package repositories

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// UploaderRepository transfers a built artifact to static hosting.
type UploaderRepository interface {
	Upload(ctx context.Context, publish entities.PublishSettings, req entities.UploadRequest) error
}
