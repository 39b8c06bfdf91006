// Package messaging abstracts the pub/sub fabric used to announce
// domain events such as sent service requests and booked appointments.
package messaging

import "context"

type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
