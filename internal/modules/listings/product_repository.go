package listings

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ProductRepository handles farmer listing database operations.
// Database: marketplace.db (products table)
type ProductRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, log zerolog.Logger) *ProductRepository {
	return &ProductRepository{
		db:  db,
		log: log.With().Str("repo", "products").Logger(),
	}
}

// GetActiveByFarmer returns all active products owned by a farmer.
func (r *ProductRepository) GetActiveByFarmer(farmerID string) ([]Product, error) {
	query := `
		SELECT id, farmer_id, name, price, unit, is_active, created_at
		FROM products
		WHERE farmer_id = ? AND is_active = 1
		ORDER BY created_at`

	rows, err := r.db.Query(query, farmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for farmer %s: %w", farmerID, err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		var createdAtUnix int64
		var isActive int

		if err := rows.Scan(&p.ID, &p.FarmerID, &p.Name, &p.Price, &p.Unit, &isActive, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.IsActive = isActive != 0
		p.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return result, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(p Product) error {
	query := `
		INSERT INTO products (id, farmer_id, name, price, unit, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	isActive := 0
	if p.IsActive {
		isActive = 1
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.db.Exec(query, p.ID, p.FarmerID, p.Name, p.Price, p.Unit, isActive, createdAt.Unix()); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
	}

	return nil
}
