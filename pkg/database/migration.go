package database

import (
	"fmt"

	"github.com/Payphone-Digital/catalog/internal/model"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the catalog schema and its indexes
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products: %w", err)
	}
	if err := ProductIndexes(db); err != nil {
		return err
	}
	if _, err := BackfillFoldColumns(db); err != nil {
		return err
	}
	return nil
}

// BackfillFoldColumns fills the folded columns of rows written before those
// columns existed, or written by statements that skip model hooks
func BackfillFoldColumns(db *gorm.DB) (int, error) {
	var (
		batch   []model.Product
		updated int
	)
	writer := db.Session(&gorm.Session{NewDB: true})

	result := db.Model(&model.Product{}).
		Where("(name_fold = '' AND name <> '') OR (brand_fold = '' AND brand <> '') OR (type_fold = '' AND type <> '')").
		FindInBatches(&batch, 100, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				batch[i].Fold()
				err := writer.Model(&model.Product{}).
					Where("id = ?", batch[i].ID).
					UpdateColumns(map[string]any{
						"name_fold":  batch[i].NameFold,
						"brand_fold": batch[i].BrandFold,
						"type_fold":  batch[i].TypeFold,
					}).Error
				if err != nil {
					return err
				}
			}
			updated += len(batch)
			return nil
		})
	if result.Error != nil {
		return updated, fmt.Errorf("failed to backfill fold columns: %w", result.Error)
	}

	if updated > 0 {
		logger.GetLogger().Info("Backfilled product fold columns", zap.Int("updated", updated))
	}
	return updated, nil
}
