package bot

import (
	"context"

	"github.com/emarket/adminbot/orders"
)

// OrderStore is the slice of the order repository the handlers need.
// *orders.SQLStore satisfies it; tests substitute an in-memory fake.
type OrderStore interface {
	FindByNumber(ctx context.Context, number string) (*orders.Order, error)
	SetStatus(ctx context.Context, number string, status orders.Status) (*orders.Order, error)
	SetArchived(ctx context.Context, number string, archived bool) (*orders.Order, error)
	DeleteArchived(ctx context.Context, number string) error
	AppendAdminReply(ctx context.Context, number, text string) (*orders.Order, error)
	List(ctx context.Context, f orders.Filter) ([]orders.Order, error)
}
