package model

// Game is catalog input data: metadata and per-seat pricing for one
// event.  The core never generates or mutates games; it only reads
// them to price orders and decorate order detail responses.
type Game struct {
	ID        string
	Title     string
	StartsAt  string // display string, e.g. "2026.03.28 14:00"
	Venue     string
	SeatPrice int // price per seat
}
