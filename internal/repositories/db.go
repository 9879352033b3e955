package repositories

import (
	"context"
	"fmt"

	"github.com/rohits-web03/notely/internal/config"
)

// Open connects the store selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		s, err := ConnectDatabase(cfg.DB_URL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := ConnectMongo(ctx, cfg.DB_URL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// OpenAttachments builds the attachment backend selected by cfg.StorageDriver.
func OpenAttachments(ctx context.Context, cfg *config.Config) (AttachmentStore, error) {
	switch cfg.StorageDriver {
	case "local":
		return NewLocalUploads(cfg.UploadDir), nil
	case "s3":
		s, err := NewR2Storage(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
