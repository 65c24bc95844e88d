package listings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ResourceRepository handles supplier listing database operations.
// Database: marketplace.db (resources table)
type ResourceRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sql.DB, log zerolog.Logger) *ResourceRepository {
	return &ResourceRepository{
		db:  db,
		log: log.With().Str("repo", "resources").Logger(),
	}
}

// GetActiveBySupplier returns all active resources owned by a supplier.
// The pricing document is returned raw; callers extract the nested price
// per listing so one malformed document cannot fail the whole query.
func (r *ResourceRepository) GetActiveBySupplier(supplierID string) ([]Resource, error) {
	query := `
		SELECT id, supplier_id, name, pricing, is_active, created_at
		FROM resources
		WHERE supplier_id = ? AND is_active = 1
		ORDER BY created_at`

	rows, err := r.db.Query(query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources for supplier %s: %w", supplierID, err)
	}
	defer rows.Close()

	var result []Resource
	for rows.Next() {
		var res Resource
		var pricing string
		var createdAtUnix int64
		var isActive int

		if err := rows.Scan(&res.ID, &res.SupplierID, &res.Name, &pricing, &isActive, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}

		res.Pricing = json.RawMessage(pricing)
		res.IsActive = isActive != 0
		res.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		result = append(result, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return result, nil
}

// Create inserts a new resource.
func (r *ResourceRepository) Create(res Resource) error {
	query := `
		INSERT INTO resources (id, supplier_id, name, pricing, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	pricing := string(res.Pricing)
	if pricing == "" {
		pricing = "{}"
	}
	isActive := 0
	if res.IsActive {
		isActive = 1
	}
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.db.Exec(query, res.ID, res.SupplierID, res.Name, pricing, isActive, createdAt.Unix()); err != nil {
		return fmt.Errorf("failed to insert resource %s: %w", res.ID, err)
	}

	return nil
}
