package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// Schema is the table ProductRepo reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	image_url   TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	colors      JSONB NOT NULL,
	sizes       TEXT[] NOT NULL,
	position    INTEGER NOT NULL DEFAULT 0
)`

const listProducts = `
SELECT id, name, description, price, image_url, category, colors, sizes
FROM products
ORDER BY position, id`

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Load(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var (
			p      domain.Product
			price  decimal.Decimal
			colors []byte
			sizes  []string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &price, &p.ImageURL, &p.Category, &colors, pq.Array(&sizes)); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		if err := json.Unmarshal(colors, &p.Colors); err != nil {
			return nil, errors.Wrapf(err, "product %q: colors", p.ID)
		}
		p.Price = price
		p.Sizes = sizes
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}

	return out, nil
}
