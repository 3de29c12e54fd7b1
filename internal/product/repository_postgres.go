package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, name, description, ingredients, price, image_url, category, available, sort_order, created_at, updated_at`

	getProductByIDQuery = `
		SELECT id, name, description, ingredients, price, image_url, category, available, sort_order, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	listAvailableByIDsQuery = `
		SELECT id, name, description, ingredients, price, image_url, category, available, sort_order, created_at, updated_at
		FROM products
		WHERE id = ANY($1::text[]) AND available = TRUE
	`
	categoriesQuery = `
		SELECT DISTINCT category
		FROM products
		WHERE available = TRUE
		ORDER BY category
	`
	insertProductQuery = `
		INSERT INTO products (id, name, description, ingredients, price, image_url, category, available, sort_order, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			ingredients = $3,
			price = $4,
			image_url = $5,
			category = $6,
			available = $7,
			sort_order = $8,
			updated_at = $9
		WHERE id = $10
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(filter ListFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $1`
	}
	if !filter.IncludeUnavailable {
		query += ` AND available = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListAvailableByIDs(ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listAvailableByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) Categories() ([]string, error) {
	rows, err := r.db.Query(categoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	_, err := r.db.Exec(insertProductQuery,
		p.ID, p.Name, p.Description, pq.Array(p.Ingredients), p.Price, p.ImageURL,
		p.Category, p.Available, p.SortOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(p Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Description, pq.Array(p.Ingredients), p.Price, p.ImageURL,
		p.Category, p.Available, p.SortOrder, p.UpdatedAt, p.ID)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, pq.Array(&p.Ingredients), &p.Price,
		&p.ImageURL, &p.Category, &p.Available, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
