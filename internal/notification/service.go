package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/secretsanta/internal/metrics"
)

// Common errors
var (
	ErrNotificationFailed = errors.New("failed to notify participants")
	ErrUnknownAssignee    = errors.New("assigned participant not found")
)

// Dispatcher tells every participant of a drawn group who they drew
type Dispatcher struct {
	sender      Sender
	from        string
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewDispatcher creates a dispatcher sending from the given address with at
// most concurrency e-mails in flight.
func NewDispatcher(sender Sender, from string, concurrency int, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:      sender,
		from:        from,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger,
	}
}

// Notify sends one e-mail per recipient naming the participant they drew.
// Sends run concurrently and all of them settle before Notify returns; any
// failure is reported as a single ErrNotificationFailed.
func (d *Dispatcher) Notify(ctx context.Context, recipients []Recipient, groupName string) error {
	messages, err := d.compose(recipients, groupName)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to compose draw e-mails", "group", groupName, "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)
	// No shared context cancellation: one rejected send must not abort the others.
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, msg := range messages {
		g.Go(func() error {
			err := d.sender.Send(ctx, msg)
			d.metrics.EmailSent(err)
			if err != nil {
				mu.Lock()
				merr = multierror.Append(merr, fmt.Errorf("send to %s: %w", msg.To, err))
				mu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()

	if err := merr.ErrorOrNil(); err != nil {
		d.logger.ErrorContext(ctx, "Failed to send draw e-mails",
			"group", groupName,
			"failed", merr.Len(),
			"total", len(messages),
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	d.logger.InfoContext(ctx, "Draw e-mails sent", "group", groupName, "total", len(messages))
	return nil
}

// SendLoginLink e-mails a magic link
func (d *Dispatcher) SendLoginLink(ctx context.Context, to, name, link, ttl string) error {
	msg, err := ComposeLoginMessage(d.from, to, name, link, ttl)
	if err != nil {
		return err
	}
	err = d.sender.Send(ctx, msg)
	d.metrics.EmailSent(err)
	return err
}

func (d *Dispatcher) compose(recipients []Recipient, groupName string) ([]Message, error) {
	names := make(map[string]string, len(recipients))
	for _, r := range recipients {
		names[r.ID] = r.Name
	}

	messages := make([]Message, 0, len(recipients))
	for _, r := range recipients {
		receiverName, ok := names[r.AssignedTo]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %q", ErrUnknownAssignee, r.ID, r.AssignedTo)
		}
		msg, err := ComposeDrawMessage(d.from, r, receiverName, groupName)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
