// model/book.go
package model

import "time"

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookBorrowed  BookStatus = "borrowed"
	BookReserved  BookStatus = "reserved"
	BookMissing   BookStatus = "missing"
	BookDamaged   BookStatus = "damaged"
	BookWeeded    BookStatus = "weeded"
)

// Book is one physical copy. AccessionNumber identifies the copy (not the
// edition, which is what the ISBN is for).
type Book struct {
	ID                int64      `json:"id"`
	AccessionNumber   string     `json:"accession_number"`
	ISBN              string     `json:"isbn,omitempty"`
	Title             string     `json:"title"`
	Author            string     `json:"author"`
	Category          string     `json:"category"`
	Condition         string     `json:"condition"`
	Location          string     `json:"location"`
	Status            BookStatus `json:"status"`
	ReplacementCost   float64    `json:"replacement_cost"`
	Summary           string     `json:"summary,omitempty"`
	TotalBorrows      int64      `json:"total_borrows"`
	LastBorrowedAt    *time.Time `json:"last_borrowed_at,omitempty"`
	LastInventoriedAt *time.Time `json:"last_inventoried_at,omitempty"`
	InventoryNotes    string     `json:"inventory_notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
