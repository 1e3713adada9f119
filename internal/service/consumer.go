package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/platform/logger"
	"cafe-tab/internal/projection"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultProcessAttempts = 5
	DefaultRetryBackoff    = time.Second
)

// ErrMalformedMessage marks a message whose payload is not an envelope. Such
// messages are committed and skipped.
var ErrMalformedMessage = errors.New("malformed message")

// Consumer feeds envelopes read from the tab-events topic into projections.
type Consumer struct {
	Reader      MessageReader
	Projections []projection.Projection
	History     projection.HistoryLoader
	Log         *logger.Logger

	Attempts int
	Backoff  time.Duration
}

func NewConsumer(reader MessageReader, projections []projection.Projection, history projection.HistoryLoader, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{
		Reader:      reader,
		Projections: projections,
		History:     history,
		Log:         log,
		Attempts:    DefaultProcessAttempts,
		Backoff:     DefaultRetryBackoff,
	}
}

// Start blocks until ctx is cancelled or the reader is closed. An offset is
// committed only once every projection accepted the message. When a message
// still fails after Attempts tries, Start returns without committing it so the
// group redelivers it after restart.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("starting projector consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.Log.Error("fetch message", "error", err)
			if !c.wait(ctx) {
				return nil
			}
			continue
		}

		if err := c.processWithRetry(ctx, message); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("partition %d offset %d: %w", message.Partition, message.Offset, err)
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Log.Error("commit message", "offset", message.Offset, "error", err)
		}
	}
}

func (c *Consumer) processWithRetry(ctx context.Context, message kafka.Message) error {
	attempts := max(c.Attempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.Process(ctx, message)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrMalformedMessage) {
			c.Log.Warn("skipping message", "partition", message.Partition, "offset", message.Offset, "error", err)
			return nil
		}
		c.Log.Warn("process message",
			"partition", message.Partition,
			"offset", message.Offset,
			"attempt", attempt,
			"error", err,
		)
		if attempt < attempts && !c.wait(ctx) {
			return ctx.Err()
		}
	}
	return err
}

// wait sleeps for Backoff and reports false if ctx ended first.
func (c *Consumer) wait(ctx context.Context) bool {
	timer := time.NewTimer(c.Backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Consumer) Process(ctx context.Context, message kafka.Message) error {
	var env domain.Envelope
	if err := json.Unmarshal(message.Value, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %w", ErrMalformedMessage, err)
	}

	var errs []error
	for _, p := range c.Projections {
		if err := projection.Deliver(ctx, p, []domain.Envelope{env}, c.History); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	if len(errs) == 0 {
		c.Log.Debug("envelope projected", "tab_id", env.TabID.String(), "sequence", env.Sequence, "type", env.Type)
	}
	return errors.Join(errs...)
}
