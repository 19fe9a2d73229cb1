package db

import (
	"context"
	"fmt"

	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

var migratedModels = []any{
	&models.User{},
	&models.Product{},
	&models.ProductVariant{},
	&models.Order{},
	&models.OrderItem{},
	&models.TelegramLog{},
}

// MaybeAutoMigrate syncs the schema when running in dev with the flag enabled.
func MaybeAutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *Client) error {
	if !cfg.App.IsDev() || !cfg.App.AutoMigrate {
		return nil
	}

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "running schema auto-migration (dev)")

	if err := client.DB().WithContext(ctx).AutoMigrate(migratedModels...); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}

	logg.Info(ctx, "schema auto-migration completed")
	return nil
}
