package seed

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shareit-app/referral-service/internal/models"
)

type businessFile struct {
	Businesses []models.Business `yaml:"businesses"`
}

type BusinessWriter interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, businesses []models.Business) error
}

// Businesses loads the catalog file into the store when the collection is
// empty. The catalog is owned by an external collaborator; this exists so a
// fresh environment is usable.
func Businesses(ctx context.Context, repo BusinessWriter, path string, log *zap.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("business seed file missing, starting with empty catalog", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}

	var f businessFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Businesses) == 0 {
		return nil
	}

	if err := repo.InsertMany(ctx, f.Businesses); err != nil {
		return err
	}
	log.Info("seeded business catalog", zap.Int("count", len(f.Businesses)))
	return nil
}
