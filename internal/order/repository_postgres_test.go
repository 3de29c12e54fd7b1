package order

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func deliveredOrderRow(id string, number int, customerID string, earned int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "order_number", "customer_id", "status", "total_price",
		"points_earned", "points_used", "delivery_type", "payment_method",
		"guest_email", "guest_first_name", "guest_last_name",
		"delivery_address", "delivery_city", "delivery_postal_code", "delivery_phone",
		"notes", "created_at", "updated_at"}).
		AddRow(id, number, customerID, "delivered", "15.30",
			earned, 500, "pickup", "card_on_delivery",
			nil, nil, nil,
			"", "", "", "+421900000000",
			nil, now, now)
}

func pendingCustomerOrder(customerID string) Order {
	now := time.Now().UTC()
	return Order{
		ID:            "ord-1",
		CustomerID:    &customerID,
		Status:        StatusPending,
		DeliveryType:  DeliveryTypePickup,
		PaymentMethod: PaymentMethodCardOnDelivery,
		DeliveryPhone: "+421900000000",
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []Item{
			{ID: "it-1", ProductID: "p1", ProductName: "Margherita", Quantity: 2, PriceAtTime: decimal.RequireFromString("8.90")},
			{ID: "it-2", ProductID: "p2", ProductName: "Fanta 0.5L", Quantity: 1, PriceAtTime: decimal.RequireFromString("2.50")},
		},
	}
}

func TestCreate_RedeemsUnderRowLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := pendingCustomerOrder("c1")

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(800))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(42))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("it-1", "ord-1", "p1", "Margherita", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("it-2", "ord-1", "p2", "Fanta 0.5L", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE customers SET points_balance").
		WithArgs(500, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO points_transactions").
		WithArgs(sqlmock.AnyArg(), "c1", -500, "Redeemed for Order #42", "ord-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(ord, decimal.RequireFromString("20.30"), 500)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.OrderNumber != 42 {
		t.Fatalf("expected order number 42, got %d", created.OrderNumber)
	}
	if created.PointsUsed != 500 {
		t.Fatalf("expected 500 points used, got %d", created.PointsUsed)
	}
	if !created.TotalPrice.Equal(decimal.RequireFromString("15.30")) {
		t.Fatalf("expected total 15.30, got %s", created.TotalPrice)
	}
	if created.PointsEarned != 153 {
		t.Fatalf("expected 153 points earned, got %d", created.PointsEarned)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_ClampsToBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := pendingCustomerOrder("c1")
	ord.Items = ord.Items[:1]

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(200))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(43))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE customers SET points_balance").
		WithArgs(200, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO points_transactions").
		WithArgs(sqlmock.AnyArg(), "c1", -200, "Redeemed for Order #43", "ord-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(ord, decimal.RequireFromString("17.80"), 500)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.PointsUsed != 200 {
		t.Fatalf("expected clamp to 200 points, got %d", created.PointsUsed)
	}
	if !created.TotalPrice.Equal(decimal.RequireFromString("15.80")) {
		t.Fatalf("expected total 15.80, got %s", created.TotalPrice)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_GuestSkipsLoyalty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	email := "guest@example.com"
	first := "Jana"
	now := time.Now().UTC()
	ord := Order{
		ID:             "ord-2",
		Status:         StatusPending,
		DeliveryType:   DeliveryTypePickup,
		PaymentMethod:  PaymentMethodCashOnDelivery,
		DeliveryPhone:  "+421900000000",
		GuestEmail:     &email,
		GuestFirstName: &first,
		CreatedAt:      now,
		UpdatedAt:      now,
		Items: []Item{
			{ID: "it-1", ProductID: "p1", ProductName: "Margherita", Quantity: 1, PriceAtTime: decimal.RequireFromString("8.90")},
		},
	}

	// no balance lock, no debit, no ledger row for guests
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(44))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(ord, decimal.RequireFromString("8.90"), 500)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.PointsUsed != 0 || created.PointsEarned != 0 {
		t.Fatalf("guest order must carry no points, got used=%d earned=%d", created.PointsUsed, created.PointsEarned)
	}
	if !created.TotalPrice.Equal(decimal.RequireFromString("8.90")) {
		t.Fatalf("expected total 8.90, got %s", created.TotalPrice)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := pendingCustomerOrder("c1")

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(800))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(45))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err = repo.Create(ord, decimal.RequireFromString("20.30"), 500)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeliverAndCredit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	customerID := "c1"
	ord := Order{ID: "ord-1", OrderNumber: 7, CustomerID: &customerID, Status: StatusReady, PointsEarned: 153}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE orders").
		WithArgs(StatusDelivered, sqlmock.AnyArg(), "ord-1").
		WillReturnRows(deliveredOrderRow("ord-1", 7, customerID, 153))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(300))
	mock.ExpectExec("UPDATE customers SET points_balance").
		WithArgs(153, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO points_transactions").
		WithArgs(sqlmock.AnyArg(), "c1", 153, "Earned from Order #7", "ord-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "price_at_time"}))

	delivered, err := repo.DeliverAndCredit(ord)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if delivered.Status != StatusDelivered {
		t.Fatalf("expected delivered status, got %s", delivered.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeliverAndCredit_GuestOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := Order{ID: "ord-2", OrderNumber: 8, Status: StatusReady}

	rows := sqlmock.NewRows([]string{"id", "order_number", "customer_id", "status", "total_price",
		"points_earned", "points_used", "delivery_type", "payment_method",
		"guest_email", "guest_first_name", "guest_last_name",
		"delivery_address", "delivery_city", "delivery_postal_code", "delivery_phone",
		"notes", "created_at", "updated_at"}).
		AddRow("ord-2", 8, nil, "delivered", "8.90",
			0, 0, "pickup", "cash_on_delivery",
			"guest@example.com", "Jana", nil,
			"", "", "", "+421900000000",
			nil, time.Now(), time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE orders").
		WithArgs(StatusDelivered, sqlmock.AnyArg(), "ord-2").
		WillReturnRows(rows)
	mock.ExpectCommit()
	mock.ExpectQuery("FROM order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "price_at_time"}))

	delivered, err := repo.DeliverAndCredit(ord)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if delivered.Status != StatusDelivered {
		t.Fatalf("expected delivered status, got %s", delivered.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
