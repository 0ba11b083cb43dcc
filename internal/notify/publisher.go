package notify

import (
	"context"
	"errors"

	"meudinheiro/internal/core"
)

// Fanout forwards every notification to all its publishers. Every
// publisher is tried; failures are joined.
type Fanout []Publisher

func (f Fanout) PublishNotification(ctx context.Context, n core.Notification) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishNotification(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine returns nil for no publishers, the publisher itself for one,
// and a Fanout otherwise. Nil entries are skipped.
func Combine(publishers ...Publisher) Publisher {
	var live Fanout
	for _, p := range publishers {
		if p != nil {
			live = append(live, p)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return live
}
