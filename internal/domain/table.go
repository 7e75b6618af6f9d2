package domain

import "time"

// TableStatus is the current floor state of a table
type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableOccupied  TableStatus = "Occupied"
)

// Table is a physical dining table
type Table struct {
	ID       string      `bson:"_id" json:"id"`
	Number   int         `bson:"number" json:"number"`
	Capacity int         `bson:"capacity" json:"capacity"`
	Status   TableStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewTable creates a new available table
func NewTable(id string, number, capacity int) (*Table, error) {
	if number <= 0 || capacity <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &Table{
		ID:        id,
		Number:    number,
		Capacity:  capacity,
		Status:    TableAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Seats reports whether the table can seat a party of the given size
func (t *Table) Seats(partySize int) bool {
	return t.Capacity >= partySize
}

// Occupy marks the table as occupied
func (t *Table) Occupy() {
	t.Status = TableOccupied
	t.UpdatedAt = time.Now()
}

// Release marks the table as available again
func (t *Table) Release() {
	t.Status = TableAvailable
	t.UpdatedAt = time.Now()
}
