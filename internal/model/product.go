package model

import (
	"time"

	"github.com/Payphone-Digital/catalog/internal/catalog"
	"gorm.io/gorm"
)

// Product is one catalog entry. Price is stored in minor currency units.
//
// The *Fold columns hold case-folded copies of name, brand and type. They are
// what case-insensitive filters and searches compare against, so folding
// never depends on the database's LOWER.
type Product struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;size:200;not null"`
	Description     string    `gorm:"column:description;type:text"`
	Price           int64     `gorm:"column:price;not null"`
	PictureURL      string    `gorm:"column:picture_url;size:2048"`
	Type            string    `gorm:"column:type;size:100;not null"`
	Brand           string    `gorm:"column:brand;size:100;not null"`
	QuantityInStock int       `gorm:"column:quantity_in_stock;not null;default:0"`
	NameFold        string    `gorm:"column:name_fold;size:200;not null;default:''"`
	BrandFold       string    `gorm:"column:brand_fold;size:100;not null;default:''"`
	TypeFold        string    `gorm:"column:type_fold;size:100;not null;default:''"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Fold refreshes the folded columns from name, brand and type
func (p *Product) Fold() {
	p.NameFold = catalog.Fold(p.Name)
	p.BrandFold = catalog.Fold(p.Brand)
	p.TypeFold = catalog.Fold(p.Type)
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Fold()
	return nil
}

func (p Product) RecordID() int64     { return p.ID }
func (p Product) RecordName() string  { return p.Name }
func (p Product) RecordPrice() int64  { return p.Price }
func (p Product) RecordBrand() string { return p.Brand }
func (p Product) RecordType() string  { return p.Type }
