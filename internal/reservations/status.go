package reservations

// Status is the reservation lifecycle state.
//
//	HELD ──confirm──▶ BOOKED ──refund──▶ CANCELLED
//	  │ cancel                               ▲
//	  ├──────────────────────────────────────┘
//	  └─TTL──▶ EXPIRED
//
// CANCELLED and EXPIRED are terminal.
type Status string

const (
	StatusHeld      Status = "HELD"
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusBooked, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// IsActive reports whether the reservation still occupies its seats.
func (s Status) IsActive() bool {
	return s == StatusHeld || s == StatusBooked
}

// CanConfirm reports whether confirm may transition this status to BOOKED.
func (s Status) CanConfirm() bool {
	return s == StatusHeld
}

// CanCancel reports whether cancel may transition this status to CANCELLED.
func (s Status) CanCancel() bool {
	return s == StatusHeld || s == StatusBooked
}
