package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/shop-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Каталог для этого сервиса - внешний словарь, только чтение.
type catalogRepo struct {
	postgres
}

func NewCatalogRepo(db *sqlx.DB) *catalogRepo {
	return &catalogRepo{postgres: newPostgres(db)}
}

func (r *catalogRepo) FindProduct(ctx context.Context, id int64) (entities.Product, error) {
	query, args := r.qb.Select("product_id", "name", "price", "color").
		From("products").
		Where(sq.Eq{"product_id": id}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

func (r *catalogRepo) FindPackage(ctx context.Context, id int64) (entities.Package, error) {
	query, args := r.qb.Select("package_id", "name", "price").
		From("packages").
		Where(sq.Eq{"package_id": id}).
		MustSql()

	var pkg Package
	err := r.getContext(ctx, &pkg, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Package{}, entities.ErrPackageNotFound
	}
	if err != nil {
		return entities.Package{}, fmt.Errorf("failed to get package: %w", err)
	}
	return PackageToEntity(pkg), nil
}
