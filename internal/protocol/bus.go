package protocol

import "context"

// Bus carries requests and acks between predictors and the authority.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

type readyWaiter interface {
	WaitReady(ctx context.Context) error
}

func waitReady(ctx context.Context, bus Bus) error {
	if rw, ok := bus.(readyWaiter); ok {
		return rw.WaitReady(ctx)
	}
	return nil
}
