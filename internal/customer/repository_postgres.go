package customer

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	customerColumns = `id, user_id, first_name, last_name, phone_number, delivery_address, city, postal_code, points_balance, created_at`

	getCustomerByIDQuery = `
		SELECT id, user_id, first_name, last_name, phone_number, delivery_address, city, postal_code, points_balance, created_at
		FROM customers
		WHERE id = $1
	`
	getCustomerByUserIDQuery = `
		SELECT id, user_id, first_name, last_name, phone_number, delivery_address, city, postal_code, points_balance, created_at
		FROM customers
		WHERE user_id = $1
	`
	insertCustomerQuery = `
		INSERT INTO customers (id, user_id, first_name, last_name, phone_number, delivery_address, city, postal_code, points_balance, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	listCustomersQuery = `
		SELECT c.id, c.user_id, c.first_name, c.last_name, c.phone_number, c.delivery_address, c.city, c.postal_code, c.points_balance, c.created_at,
		       u.email,
		       COALESCE(SUM(o.total_price) FILTER (WHERE o.id IS NOT NULL), 0) AS total_spent,
		       COUNT(o.id) AS order_count
		FROM customers c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN orders o ON o.customer_id = c.id
		WHERE ($1 = '' OR c.first_name ILIKE '%' || $1 || '%' OR c.last_name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
		GROUP BY c.id, u.email
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	countCustomersQuery = `
		SELECT COUNT(*)
		FROM customers c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE ($1 = '' OR c.first_name ILIKE '%' || $1 || '%' OR c.last_name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
	`
	topSpendersQuery = `
		SELECT c.id, c.first_name, c.last_name,
		       COALESCE(SUM(o.total_price) FILTER (WHERE o.id IS NOT NULL), 0) AS total_spent
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id
		ORDER BY total_spent DESC
		LIMIT 5
	`
	lockBalanceQuery    = `SELECT points_balance FROM customers WHERE id = $1 FOR UPDATE`
	adjustBalanceQuery  = `
		UPDATE customers
		SET points_balance = points_balance + $1
		WHERE id = $2
		RETURNING id, user_id, first_name, last_name, phone_number, delivery_address, city, postal_code, points_balance, created_at
	`
	insertLedgerRowQuery = `
		INSERT INTO points_transactions (id, customer_id, amount, reason, order_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id string) (Customer, error) {
	return scanCustomer(r.db.QueryRow(getCustomerByIDQuery, id))
}

func (r *PostgresRepository) GetByUserID(userID string) (Customer, error) {
	return scanCustomer(r.db.QueryRow(getCustomerByUserIDQuery, userID))
}

func (r *PostgresRepository) Create(c Customer) (Customer, error) {
	_, err := r.db.Exec(insertCustomerQuery,
		c.ID, c.UserID, c.FirstName, c.LastName, c.PhoneNumber,
		c.DeliveryAddress, c.City, c.PostalCode, c.PointsBalance, c.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) List(filter ListFilter) ([]WithStats, int, error) {
	rows, err := r.db.Query(listCustomersQuery, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]WithStats, 0)
	for rows.Next() {
		var ws WithStats
		if err := rows.Scan(&ws.ID, &ws.UserID, &ws.FirstName, &ws.LastName, &ws.PhoneNumber,
			&ws.DeliveryAddress, &ws.City, &ws.PostalCode, &ws.PointsBalance, &ws.CreatedAt,
			&ws.Email, &ws.TotalSpent, &ws.OrderCount); err != nil {
			return nil, 0, err
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(countCustomersQuery, filter.Search).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepository) Stats(monthStart time.Time) (Stats, error) {
	var stats Stats
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&stats.TotalCustomers); err != nil {
		return Stats{}, err
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customers WHERE created_at >= $1`, monthStart).Scan(&stats.CustomersThisMonth); err != nil {
		return Stats{}, err
	}

	rows, err := r.db.Query(topSpendersQuery)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	stats.TopSpenders = make([]TopSpender, 0, 5)
	for rows.Next() {
		var ts TopSpender
		if err := rows.Scan(&ts.ID, &ts.FirstName, &ts.LastName, &ts.TotalSpent); err != nil {
			return Stats{}, err
		}
		stats.TopSpenders = append(stats.TopSpenders, ts)
	}
	return stats, rows.Err()
}

// AdjustPoints applies a manual balance change. The customer row is locked
// first so concurrent checkout or delivery credits cannot interleave; the
// ledger row commits or rolls back together with the balance.
func (r *PostgresRepository) AdjustPoints(customerID string, amount int, reason string) (Customer, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Customer{}, err
	}
	defer tx.Rollback()

	var balance int
	if err := tx.QueryRow(lockBalanceQuery, customerID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	if balance+amount < 0 {
		return Customer{}, ErrInsufficientPoints
	}

	updated, err := scanCustomer(tx.QueryRow(adjustBalanceQuery, amount, customerID))
	if err != nil {
		return Customer{}, err
	}

	_, err = tx.Exec(insertLedgerRowQuery, uuid.NewString(), customerID, amount, reason, nil, time.Now().UTC())
	if err != nil {
		return Customer{}, err
	}

	if err := tx.Commit(); err != nil {
		return Customer{}, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.PhoneNumber,
		&c.DeliveryAddress, &c.City, &c.PostalCode, &c.PointsBalance, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}
