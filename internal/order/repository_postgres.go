package order

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `id, order_number, customer_id, status, total_price, points_earned, points_used, delivery_type, payment_method, guest_email, guest_first_name, guest_last_name, delivery_address, delivery_city, delivery_postal_code, delivery_phone, notes, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (id, customer_id, status, total_price, points_earned, points_used, delivery_type, payment_method, guest_email, guest_first_name, guest_last_name, delivery_address, delivery_city, delivery_postal_code, delivery_phone, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING order_number
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price_at_time)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	lockCustomerBalanceQuery = `SELECT points_balance FROM customers WHERE id = $1 FOR UPDATE`
	debitCustomerQuery       = `UPDATE customers SET points_balance = points_balance - $1 WHERE id = $2`
	creditCustomerQuery      = `UPDATE customers SET points_balance = points_balance + $1 WHERE id = $2`
	insertPointsEntryQuery   = `
		INSERT INTO points_transactions (id, customer_id, amount, reason, order_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	getOrderByIDQuery = `
		SELECT id, order_number, customer_id, status, total_price, points_earned, points_used, delivery_type, payment_method, guest_email, guest_first_name, guest_last_name, delivery_address, delivery_city, delivery_postal_code, delivery_phone, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	listItemsByOrderIDsQuery = `
		SELECT id, order_id, product_id, product_name, quantity, price_at_time
		FROM order_items
		WHERE order_id = ANY($1::text[])
		ORDER BY product_name
	`
	orderCursorQuery = `SELECT created_at FROM orders WHERE id = $1`

	updateOrderStatusQuery = `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, order_number, customer_id, status, total_price, points_earned, points_used, delivery_type, payment_method, guest_email, guest_first_name, guest_last_name, delivery_address, delivery_city, delivery_postal_code, delivery_phone, notes, created_at, updated_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ord Order, subtotal decimal.Decimal, requestedPoints int) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	// redemption is clamped against the balance read under the row lock, so
	// two concurrent checkouts from the same account cannot double-spend
	pointsUsed := 0
	if ord.CustomerID != nil && requestedPoints > 0 {
		var balance int
		if err := tx.QueryRow(lockCustomerBalanceQuery, *ord.CustomerID).Scan(&balance); err != nil {
			return Order{}, err
		}
		pointsUsed = ClampRedemption(requestedPoints, balance)
	}

	ord.PointsUsed = pointsUsed
	ord.TotalPrice = FinalPrice(subtotal, pointsUsed)
	if ord.CustomerID != nil {
		ord.PointsEarned = EarnedPoints(ord.TotalPrice)
	} else {
		ord.PointsEarned = 0
	}

	err = tx.QueryRow(insertOrderQuery,
		ord.ID, ord.CustomerID, ord.Status, ord.TotalPrice, ord.PointsEarned, ord.PointsUsed,
		ord.DeliveryType, ord.PaymentMethod, ord.GuestEmail, ord.GuestFirstName, ord.GuestLastName,
		ord.DeliveryAddress, ord.DeliveryCity, ord.DeliveryPostalCode, ord.DeliveryPhone,
		ord.Notes, ord.CreatedAt, ord.UpdatedAt).Scan(&ord.OrderNumber)
	if err != nil {
		return Order{}, err
	}

	for i := range ord.Items {
		ord.Items[i].OrderID = ord.ID
		item := ord.Items[i]
		if _, err := tx.Exec(insertOrderItemQuery,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.PriceAtTime); err != nil {
			return Order{}, err
		}
	}

	if pointsUsed > 0 {
		if _, err := tx.Exec(debitCustomerQuery, pointsUsed, *ord.CustomerID); err != nil {
			return Order{}, err
		}
		reason := fmt.Sprintf("Redeemed for Order #%d", ord.OrderNumber)
		if _, err := tx.Exec(insertPointsEntryQuery,
			uuid.NewString(), *ord.CustomerID, -pointsUsed, reason, ord.ID, ord.CreatedAt); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
	if err != nil {
		return Order{}, err
	}

	orders := []Order{ord}
	if err := r.attachItems(orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) ListByCustomer(customerID string, limit int, cursor string) ([]Order, string, error) {
	where := `customer_id = $1`
	return r.listPage(where, []interface{}{customerID}, limit, cursor)
}

func (r *PostgresRepository) ListAll(status Status, limit int, cursor string) ([]Order, string, error) {
	if status == "" {
		return r.listPage(`1=1`, nil, limit, cursor)
	}
	return r.listPage(`status = $1`, []interface{}{string(status)}, limit, cursor)
}

// listPage runs a keyset-paginated query newest first. The cursor is the id
// of the previous page's last order; one extra row is fetched to detect
// whether a further page exists.
func (r *PostgresRepository) listPage(where string, args []interface{}, limit int, cursor string) ([]Order, string, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where

	if cursor != "" {
		var cursorAt time.Time
		if err := r.db.QueryRow(orderCursorQuery, cursor).Scan(&cursorAt); err != nil {
			if err == sql.ErrNoRows {
				return []Order{}, "", nil
			}
			return nil, "", err
		}
		query += fmt.Sprintf(` AND (created_at, id) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, cursorAt, cursor)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(orders) > limit {
		orders = orders[:limit]
		nextCursor = orders[limit-1].ID
	}

	if err := r.attachItems(orders); err != nil {
		return nil, "", err
	}
	return orders, nextCursor, nil
}

func (r *PostgresRepository) ListActive() ([]Order, error) {
	statuses := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		statuses[i] = string(s)
	}

	rows, err := r.db.Query(
		`SELECT `+orderColumns+` FROM orders WHERE status = ANY($1::text[]) ORDER BY created_at ASC`,
		pq.Array(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) Stats(dayStart time.Time) (Stats, error) {
	var stats Stats
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return Stats{}, err
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE created_at >= $1`, dayStart).Scan(&stats.TodayOrders); err != nil {
		return Stats{}, err
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE status IN ('pending','confirmed')`).Scan(&stats.PendingOrders); err != nil {
		return Stats{}, err
	}
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE created_at >= $1 AND status <> 'cancelled'`,
		dayStart).Scan(&stats.TodayRevenue)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (r *PostgresRepository) UpdateStatus(id string, status Status) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(updateOrderStatusQuery, status, time.Now().UTC(), id))
	if err != nil {
		return Order{}, err
	}

	orders := []Order{ord}
	if err := r.attachItems(orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) DeliverAndCredit(ord Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	updated, err := scanOrder(tx.QueryRow(updateOrderStatusQuery, StatusDelivered, now, ord.ID))
	if err != nil {
		return Order{}, err
	}

	if ord.CustomerID != nil && ord.PointsEarned > 0 {
		var balance int
		if err := tx.QueryRow(lockCustomerBalanceQuery, *ord.CustomerID).Scan(&balance); err != nil {
			return Order{}, err
		}
		if _, err := tx.Exec(creditCustomerQuery, ord.PointsEarned, *ord.CustomerID); err != nil {
			return Order{}, err
		}
		reason := fmt.Sprintf("Earned from Order #%d", ord.OrderNumber)
		if _, err := tx.Exec(insertPointsEntryQuery,
			uuid.NewString(), *ord.CustomerID, ord.PointsEarned, reason, ord.ID, now); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}

	orders := []Order{updated}
	if err := r.attachItems(orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

// attachItems loads line items for the given orders in one query.
func (r *PostgresRepository) attachItems(orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, ord := range orders {
		ids[i] = ord.ID
		index[ord.ID] = i
		orders[i].Items = []Item{}
	}

	rows, err := r.db.Query(listItemsByOrderIDsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceAtTime); err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.CustomerID, &ord.Status, &ord.TotalPrice,
		&ord.PointsEarned, &ord.PointsUsed, &ord.DeliveryType, &ord.PaymentMethod,
		&ord.GuestEmail, &ord.GuestFirstName, &ord.GuestLastName,
		&ord.DeliveryAddress, &ord.DeliveryCity, &ord.DeliveryPostalCode, &ord.DeliveryPhone,
		&ord.Notes, &ord.CreatedAt, &ord.UpdatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func scanOrders(rows *sql.Rows) ([]Order, error) {
	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}
