package loyalty

type Repository interface {
	// History returns the customer's ledger newest first. The cursor is the id
	// of the last row of the previous page; the second return value is the
	// cursor for the next page, empty when exhausted.
	History(customerID string, limit int, cursor string) ([]PointsTransaction, string, error)
}
