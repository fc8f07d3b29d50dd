package database

import (
	"context"
	"fmt"

	"github.com/Payphone-Digital/catalog/internal/model"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SampleProducts returns the catalog used to populate an empty database.
// Prices are in minor currency units.
func SampleProducts() []model.Product {
	return []model.Product{
		{Name: "Angular Speedster Board 2000", Description: "Lightweight board for fast runs.", Price: 20000, PictureURL: "/images/products/sb-ang1.png", Brand: "Angular", Type: "Boards", QuantityInStock: 100},
		{Name: "Green Angular Board 3000", Description: "Nunc viverra imperdiet enim.", Price: 15000, PictureURL: "/images/products/sb-ang2.png", Brand: "Angular", Type: "Boards", QuantityInStock: 100},
		{Name: "Core Board Speed Rush 3", Description: "Suspendisse dui purus, scelerisque at.", Price: 18000, PictureURL: "/images/products/sb-core1.png", Brand: "NetCore", Type: "Boards", QuantityInStock: 100},
		{Name: "Net Core Super Board", Description: "Pellentesque habitant morbi tristique.", Price: 30000, PictureURL: "/images/products/sb-core2.png", Brand: "NetCore", Type: "Boards", QuantityInStock: 100},
		{Name: "React Board Super Whizzy Fast", Description: "Fusce posuere, magna sed pulvinar.", Price: 25000, PictureURL: "/images/products/sb-react1.png", Brand: "React", Type: "Boards", QuantityInStock: 100},
		{Name: "Typescript Entry Board", Description: "Aenean nec lorem.", Price: 12000, PictureURL: "/images/products/sb-ts1.png", Brand: "TypeScript", Type: "Boards", QuantityInStock: 100},
		{Name: "Core Blue Hat", Description: "Fusce posuere, magna sed pulvinar.", Price: 1000, PictureURL: "/images/products/hat-core1.png", Brand: "NetCore", Type: "Hats", QuantityInStock: 100},
		{Name: "Green React Woolen Hat", Description: "Vestibulum tortor quam, feugiat vitae.", Price: 8000, PictureURL: "/images/products/hat-react1.png", Brand: "React", Type: "Hats", QuantityInStock: 100},
		{Name: "Purple React Woolen Hat", Description: "Ultricies eget, tempor sit amet.", Price: 1500, PictureURL: "/images/products/hat-react2.png", Brand: "React", Type: "Hats", QuantityInStock: 100},
		{Name: "Blue Code Gloves", Description: "Donec eu libero sit amet quam.", Price: 1800, PictureURL: "/images/products/glove-code1.png", Brand: "VS Code", Type: "Gloves", QuantityInStock: 100},
		{Name: "Green Code Gloves", Description: "Mauris placerat eleifend leo.", Price: 1500, PictureURL: "/images/products/glove-code2.png", Brand: "VS Code", Type: "Gloves", QuantityInStock: 100},
		{Name: "Purple React Gloves", Description: "Quisque sit amet est et sapien.", Price: 1600, PictureURL: "/images/products/glove-react1.png", Brand: "React", Type: "Gloves", QuantityInStock: 100},
		{Name: "Green React Gloves", Description: "Aliquam erat volutpat.", Price: 1400, PictureURL: "/images/products/glove-react2.png", Brand: "React", Type: "Gloves", QuantityInStock: 100},
		{Name: "Redis Red Boots", Description: "Nam dui mi, tincidunt quis.", Price: 25000, PictureURL: "/images/products/boot-redis1.png", Brand: "Redis", Type: "Boots", QuantityInStock: 100},
		{Name: "Core Red Boots", Description: "Vestibulum ante ipsum primis.", Price: 18999, PictureURL: "/images/products/boot-core2.png", Brand: "NetCore", Type: "Boots", QuantityInStock: 100},
		{Name: "Core Purple Boots", Description: "Sed porttitor lectus nibh.", Price: 19999, PictureURL: "/images/products/boot-core1.png", Brand: "NetCore", Type: "Boots", QuantityInStock: 100},
		{Name: "Angular Purple Boots", Description: "Curabitur arcu erat, accumsan id.", Price: 15000, PictureURL: "/images/products/boot-ang2.png", Brand: "Angular", Type: "Boots", QuantityInStock: 100},
		{Name: "Angular Blue Boots", Description: "Proin eget tortor risus.", Price: 18000, PictureURL: "/images/products/boot-ang1.png", Brand: "Angular", Type: "Boots", QuantityInStock: 100},
	}
}

// SeedProducts inserts the sample catalog when the products table is empty.
// It reports how many rows were inserted.
func SeedProducts(ctx context.Context, db *gorm.DB) (int, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&model.Product{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		logger.GetLogger().Debug("Products already present, skipping seed", zap.Int64("existing", existing))
		return 0, nil
	}

	products := SampleProducts()
	if err := db.WithContext(ctx).CreateInBatches(products, 50).Error; err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}

	AnalyzeProducts(db.WithContext(ctx))

	logger.GetLogger().Info("Seeded product catalog", zap.Int("count", len(products)))
	return len(products), nil
}
