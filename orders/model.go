package orders

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound reports that no order matched the requested number. Callers
// use it to distinguish a missing order from a store failure.
var ErrNotFound = errors.New("order not found")

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Sender identifies who wrote a message in an order thread.
type Sender string

const (
	SenderAdmin    Sender = "admin"
	SenderCustomer Sender = "customer"
)

// Order is a customer order together with its message thread.
// Messages is populated only by FindByNumber; list queries leave it nil.
type Order struct {
	ID            int64          `db:"id"`
	Number        string         `db:"order_number"`
	ProductName   string         `db:"product_name"`
	Quantity      int            `db:"quantity"`
	PaymentInfo   string         `db:"payment_info"`
	TransactionID sql.NullString `db:"transaction_id"`
	Status        Status         `db:"status"`
	IsArchived    bool           `db:"is_archived"`
	HasUnread     bool           `db:"has_unread"`
	CreatedAt     time.Time      `db:"created_at"`

	Messages []Message `db:"-"`
}

// Message is a single entry in an order's thread. Entries are append-only
// and kept in insertion order.
type Message struct {
	ID      int64     `db:"id"`
	OrderID int64     `db:"order_id"`
	Sender  Sender    `db:"sender"`
	Body    string    `db:"body"`
	SentAt  time.Time `db:"sent_at"`
}

// Filter narrows a List call. Nil pointer fields are ignored. Search is a
// case-insensitive substring matched against number, product name and
// transaction id. Limit of zero means no limit.
type Filter struct {
	Status   *Status
	Archived *bool
	Unread   *bool
	Search   string
	Limit    int
}

// BoolPtr is a small helper for building filters inline.
func BoolPtr(v bool) *bool { return &v }

// StatusPtr is a small helper for building filters inline.
func StatusPtr(s Status) *Status { return &s }
