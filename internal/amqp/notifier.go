package amqp

import (
	"context"

	"rocel/internal/core"
)

// TransactionChanged publishes a change event for the store. It lets the
// client plug in directly as the store's notifier.
func (c *Client) TransactionChanged(ctx context.Context, op string, tx core.Transaction) error {
	return c.PublishTransactionEvent(ctx, NewTransactionEvent(op, tx))
}
