package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/internal/model"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a product id does not exist
var ErrNotFound = errors.New("product not found")

// columns is the only source of column names that reach SQL text
var columns = map[catalog.Field]string{
	catalog.FieldID:    "id",
	catalog.FieldName:  "name",
	catalog.FieldPrice: "price",
	catalog.FieldBrand: "brand",
	catalog.FieldType:  "type",
}

// foldColumns hold the case-folded copies filters and searches compare against
var foldColumns = map[catalog.Field]string{
	catalog.FieldName:  "name_fold",
	catalog.FieldBrand: "brand_fold",
	catalog.FieldType:  "type_fold",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductRepository is the gorm-backed product collection. Predicates,
// orderings and page bounds are pushed down to the database.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var (
	_ catalog.Collection[model.Product]  = (*ProductRepository)(nil)
	_ catalog.Snapshotter[model.Product] = (*ProductRepository)(nil)
	_ catalog.FacetSource                = (*ProductRepository)(nil)
)

func (r *ProductRepository) Count(ctx context.Context, q catalog.Query) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Count")

	start := time.Now()
	db, err := r.filtered(ctx, q)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count products").
			Int("predicates", len(q.Predicates())).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return 0, err
	}

	logger.DebugWithContext(ctx, "Products counted").
		Int64("total", total).
		Duration(time.Since(start)).
		Log()

	return total, nil
}

func (r *ProductRepository) Slice(ctx context.Context, q catalog.Query, offset, limit int) ([]model.Product, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Slice")

	if limit <= 0 {
		return []model.Product{}, nil
	}

	start := time.Now()
	db, err := r.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	db, err = applyOrderings(db, q.Orderings())
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := db.Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch products").
			Int("offset", offset).
			Int("limit", limit).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Products fetched").
		Int("offset", offset).
		Int("limit", limit).
		Int("returned_count", len(products)).
		Duration(time.Since(start)).
		Log()

	return products, nil
}

// Distinct lists the distinct stored values of a categorical field
func (r *ProductRepository) Distinct(ctx context.Context, f catalog.Field) ([]string, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Distinct")

	col, ok := columns[f]
	if !ok || (f != catalog.FieldBrand && f != catalog.FieldType) {
		return nil, fmt.Errorf("field %s has no facet", f)
	}

	start := time.Now()
	var values []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct(col).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}}).
		Pluck(col, &values).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list distinct values").
			String("field", f.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Distinct values listed").
		String("field", f.String()).
		Int("value_count", len(values)).
		Duration(time.Since(start)).
		Log()

	return values, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var product model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.DebugWithContext(ctx, "Product not found").
			Int64("product_id", id).
			Log()
		return nil, ErrNotFound
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get product by ID").
			Int64("product_id", id).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	return &product, nil
}

// WithSnapshot runs fn against a repository bound to one transaction. On
// postgres the transaction is read-only REPEATABLE READ, so every statement
// inside fn sees the same snapshot.
func (r *ProductRepository) WithSnapshot(ctx context.Context, fn func(catalog.Collection[model.Product]) error) error {
	var opts []*sql.TxOptions
	if r.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepository{db: tx})
	}, opts...)
}

func (r *ProductRepository) filtered(ctx context.Context, q catalog.Query) (*gorm.DB, error) {
	db := r.db.WithContext(ctx).Model(&model.Product{})
	for _, p := range q.Predicates() {
		var err error
		if db, err = applyPredicate(db, p); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func applyPredicate(db *gorm.DB, p catalog.Predicate) (*gorm.DB, error) {
	col, ok := foldColumns[p.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported predicate field %s", p.Field)
	}

	switch p.Op {
	case catalog.OpInFold:
		if len(p.Values) == 0 {
			return db.Where("1 = 0"), nil
		}
		values := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			values = append(values, catalog.Fold(v))
		}
		return db.Where(col+" IN ?", values), nil
	case catalog.OpContainsFold:
		if len(p.Values) == 0 {
			return db, nil
		}
		pattern := "%" + likeEscaper.Replace(catalog.Fold(p.Values[0])) + "%"
		return db.Where(col+` LIKE ? ESCAPE '\'`, pattern), nil
	default:
		return nil, fmt.Errorf("unsupported predicate op %d", p.Op)
	}
}

func applyOrderings(db *gorm.DB, orderings []catalog.Ordering) (*gorm.DB, error) {
	for _, o := range orderings {
		col, ok := columns[o.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported ordering field %s", o.Field)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: o.Descending})
	}
	return db, nil
}
