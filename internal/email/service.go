package email

import (
	"context"
)

// Service delivers outreach messages. Delivery is best-effort from the
// composer's perspective: artifacts stay valid whether or not they were
// transmitted.
type Service interface {
	Send(ctx context.Context, to, subject, body string) error
}
