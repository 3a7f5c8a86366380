package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/grocery/config"
)

// New builds the disk named by cfg.Disk ("local" or "s3").
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return NewLocal(cfg.LocalRoot, cfg.URL)
	case "s3":
		return NewS3(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("storage: unknown disk %q", cfg.Disk)
}
