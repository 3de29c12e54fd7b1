package loyalty

import (
	"database/sql"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	historyQuery = `
		SELECT id, customer_id, amount, reason, order_id, created_at
		FROM points_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	historyAfterQuery = `
		SELECT id, customer_id, amount, reason, order_id, created_at
		FROM points_transactions
		WHERE customer_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`
	cursorRowQuery = `SELECT created_at FROM points_transactions WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) History(customerID string, limit int, cursor string) ([]PointsTransaction, string, error) {
	var rows *sql.Rows
	var err error

	// fetch one extra row to know whether another page exists
	if cursor == "" {
		rows, err = r.db.Query(historyQuery, customerID, limit+1)
	} else {
		var cursorAt time.Time
		if err := r.db.QueryRow(cursorRowQuery, cursor).Scan(&cursorAt); err != nil {
			if err == sql.ErrNoRows {
				return []PointsTransaction{}, "", nil
			}
			return nil, "", err
		}
		rows, err = r.db.Query(historyAfterQuery, customerID, cursorAt, cursor, limit+1)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := make([]PointsTransaction, 0, limit)
	for rows.Next() {
		var tx PointsTransaction
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.Amount, &tx.Reason, &tx.OrderID, &tx.CreatedAt); err != nil {
			return nil, "", err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(out) > limit {
		out = out[:limit]
		nextCursor = out[limit-1].ID
	}
	return out, nextCursor, nil
}
