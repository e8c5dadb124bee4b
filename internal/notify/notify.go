package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// NotificationService is implemented by every delivery channel.
type NotificationService interface {
	Notify(ctx context.Context, recipient, message string, meta map[string]string) error
}

// Flusher is optionally implemented by channels with batched transports.
type Flusher interface {
	Flush(ctx context.Context) error
}

// AggregateError is returned by the composite when every channel failed.
type AggregateError struct {
	Errs []error
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "all notification channels failed: " + strings.Join(msgs, "; ")
}

func (e *AggregateError) Unwrap() []error { return e.Errs }

// Composite fans one notification out to every channel concurrently.
// A failing channel never blocks or fails the others; the call only
// errors when no channel delivered. Every individual failure is logged.
type Composite struct {
	channels []NotificationService
	log      *slog.Logger
}

func NewComposite(log *slog.Logger, channels ...NotificationService) *Composite {
	if log == nil {
		log = slog.Default()
	}
	return &Composite{channels: channels, log: log}
}

func (c *Composite) Notify(ctx context.Context, recipient, message string, meta map[string]string) error {
	if len(c.channels) == 0 {
		return nil
	}

	errs := make([]error, len(c.channels))
	var wg sync.WaitGroup
	for i, ch := range c.channels {
		wg.Add(1)
		go func(i int, ch NotificationService) {
			defer wg.Done()
			if err := ch.Notify(ctx, recipient, message, meta); err != nil {
				errs[i] = err
				c.log.Error("notification channel failed",
					"channel", fmt.Sprintf("%T", ch),
					"recipient", recipient,
					"error", err)
			}
		}(i, ch)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == len(c.channels) {
		return &AggregateError{Errs: failed}
	}
	return nil
}

// Flush forwards to every channel that batches.
func (c *Composite) Flush(ctx context.Context) error {
	for _, ch := range c.channels {
		f, ok := ch.(Flusher)
		if !ok {
			continue
		}
		if err := f.Flush(ctx); err != nil {
			c.log.Error("notification channel flush failed",
				"channel", fmt.Sprintf("%T", ch),
				"error", err)
		}
	}
	return nil
}
