package database

import (
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// productIndexes back the listing query: the folded filter columns and the
// (sort key, id) pairs used by every ordering.
var productIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_products_brand_fold ON products (brand_fold);",
	"CREATE INDEX IF NOT EXISTS idx_products_type_fold ON products (type_fold);",
	"CREATE INDEX IF NOT EXISTS idx_products_name_id ON products (name, id);",
	"CREATE INDEX IF NOT EXISTS idx_products_price_id ON products (price, id);",
}

// postgresProductIndexes need extensions that may be unavailable; failures are only logged
var postgresProductIndexes = []string{
	"CREATE EXTENSION IF NOT EXISTS pg_trgm;",
	"CREATE INDEX IF NOT EXISTS idx_products_name_fold_trgm ON products USING GIN (name_fold gin_trgm_ops);",
}

// ProductIndexes creates the indexes used by catalog queries
func ProductIndexes(db *gorm.DB) error {
	for _, indexSQL := range productIndexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	if db.Dialector.Name() == "postgres" {
		for _, indexSQL := range postgresProductIndexes {
			if err := db.Exec(indexSQL).Error; err != nil {
				logger.GetLogger().Warn("Failed to create optional index",
					zap.String("statement", indexSQL),
					zap.Error(err),
				)
				break
			}
		}
	}

	logger.GetLogger().Debug("Product indexes ensured",
		zap.Int("index_count", len(productIndexes)),
	)
	return nil
}

// AnalyzeProducts refreshes planner statistics after bulk changes
func AnalyzeProducts(db *gorm.DB) {
	stmt := "ANALYZE products;"
	if err := db.Exec(stmt).Error; err != nil {
		logger.GetLogger().Warn("Failed to analyze products table", zap.Error(err))
	}
}
