package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, order_number, product_name, quantity, payment_info,
	transaction_id, status, is_archived, has_unread, created_at`

// SQLStore persists orders in Postgres via sqlx.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts an order and any seed messages it carries, in one
// transaction. The generated id and creation time are written back.
func (s *SQLStore) Create(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowxContext(ctx, `
		INSERT INTO orders (order_number, product_name, quantity, payment_info,
			transaction_id, status, is_archived, has_unread)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		o.Number, o.ProductName, o.Quantity, o.PaymentInfo,
		o.TransactionID, o.Status, o.IsArchived, o.HasUnread,
	)
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("insert order %s: %w", o.Number, err)
	}

	for i := range o.Messages {
		m := &o.Messages[i]
		m.OrderID = o.ID
		row := tx.QueryRowxContext(ctx, `
			INSERT INTO order_messages (order_id, sender, body)
			VALUES ($1, $2, $3)
			RETURNING id, sent_at`,
			m.OrderID, m.Sender, m.Body,
		)
		if err := row.Scan(&m.ID, &m.SentAt); err != nil {
			return fmt.Errorf("insert message for %s: %w", o.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

// FindByNumber loads a single order with its full message thread.
func (s *SQLStore) FindByNumber(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := s.db.GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", number, err)
	}

	err = s.db.SelectContext(ctx, &o.Messages, `
		SELECT id, order_id, sender, body, sent_at
		FROM order_messages WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages for %s: %w", number, err)
	}
	return &o, nil
}

// SetStatus updates the lifecycle state unconditionally, so re-approving a
// completed order succeeds and reports the same final state.
func (s *SQLStore) SetStatus(ctx context.Context, number string, status Status) (*Order, error) {
	var o Order
	err := s.db.GetContext(ctx, &o, `
		UPDATE orders SET status = $2 WHERE order_number = $1
		RETURNING `+orderColumns, number, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set status of %s: %w", number, err)
	}
	return &o, nil
}

// SetArchived flips the archive flag.
func (s *SQLStore) SetArchived(ctx context.Context, number string, archived bool) (*Order, error) {
	var o Order
	err := s.db.GetContext(ctx, &o, `
		UPDATE orders SET is_archived = $2 WHERE order_number = $1
		RETURNING `+orderColumns, number, archived)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set archived of %s: %w", number, err)
	}
	return &o, nil
}

// DeleteArchived removes an order only when it is archived. An existing but
// unarchived order reports ErrNotFound, same as a missing one.
func (s *SQLStore) DeleteArchived(ctx context.Context, number string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM orders WHERE order_number = $1 AND is_archived`, number)
	if err != nil {
		return fmt.Errorf("delete archived %s: %w", number, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete archived %s: %w", number, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendAdminReply records an operator message and clears the unread flag
// in one transaction.
func (s *SQLStore) AppendAdminReply(ctx context.Context, number, text string) (*Order, error) {
	return s.appendMessage(ctx, number, SenderAdmin, text, false)
}

// AppendCustomerMessage records an inbound customer message and raises the
// unread flag.
func (s *SQLStore) AppendCustomerMessage(ctx context.Context, number, text string) (*Order, error) {
	return s.appendMessage(ctx, number, SenderCustomer, text, true)
}

func (s *SQLStore) appendMessage(ctx context.Context, number string, sender Sender, text string, unread bool) (*Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o Order
	err = tx.GetContext(ctx, &o, `
		UPDATE orders SET has_unread = $2 WHERE order_number = $1
		RETURNING `+orderColumns, number, unread)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("append to %s: %w", number, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_messages (order_id, sender, body) VALUES ($1, $2, $3)`,
		o.ID, sender, text)
	if err != nil {
		return nil, fmt.Errorf("append to %s: %w", number, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append to %s: %w", number, err)
	}
	return &o, nil
}

// List returns orders matching the filter, newest first.
func (s *SQLStore) List(ctx context.Context, f Filter) ([]Order, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != nil {
		where = append(where, "status = "+arg(*f.Status))
	}
	if f.Archived != nil {
		where = append(where, "is_archived = "+arg(*f.Archived))
	}
	if f.Unread != nil {
		where = append(where, "has_unread = "+arg(*f.Unread))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := arg("%" + term + "%")
		where = append(where, fmt.Sprintf(
			"(order_number ILIKE %s OR product_name ILIKE %s OR COALESCE(transaction_id, '') ILIKE %s)",
			p, p, p))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	var out []Order
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}
