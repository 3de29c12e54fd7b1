package order

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// statusRank orders the linear fulfilment sequence. Cancelled sits outside it.
var statusRank = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReady:          3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// ActiveStatuses are the non-terminal states shown on the kitchen display.
var ActiveStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := statusRank[status]; ok {
		return status, nil
	}
	if status == StatusCancelled {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further transition may leave the state.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition is the explicit transition table: forward moves along the
// fulfilment sequence (skipping steps is fine, pickup orders never go out for
// delivery) and cancellation from any non-terminal state. Backward moves and
// transitions out of a terminal state are rejected.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
