package notifier

import (
	"context"

	"weeklyworks/pkg/models"
)

// Notifier delivers a weekly message to one destination channel. Delivery is
// best effort: implementations log failures and never return them, and an
// empty channel means notifications are disabled.
type Notifier interface {
	Deliver(ctx context.Context, channel string, msg models.Message)
}
