package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Outcome struct {
	Recipient string
	Status    Status
	Err       error
}

const defaultSendConcurrency = 4

// Dispatcher fans the formatted message out to every recipient. With no
// transport configured it degrades to a local preview: the message is logged
// once and every recipient reports skipped. One recipient's failure never
// blocks the others; the caller judges the run from the aggregate outcomes.
type Dispatcher struct {
	transport   Transport
	logger      *slog.Logger
	concurrency int
}

func NewDispatcher(transport Transport, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport:   transport,
		logger:      logger,
		concurrency: defaultSendConcurrency,
	}
}

func (d *Dispatcher) Send(ctx context.Context, text string, recipients []string) []Outcome {
	if d == nil {
		return nil
	}

	outcomes := make([]Outcome, len(recipients))
	if d.transport == nil {
		d.logger.Info("no transport configured, preview only", "message", text)
		for i, recipient := range recipients {
			outcomes[i] = Outcome{Recipient: recipient, Status: StatusSkipped}
		}
		return outcomes
	}

	concurrency := d.concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := d.transport.Send(ctx, text, recipient); err != nil {
				d.logger.Warn("delivery failed", "recipient", recipient, "error", err)
				outcomes[i] = Outcome{Recipient: recipient, Status: StatusFailed, Err: err}
				return
			}
			outcomes[i] = Outcome{Recipient: recipient, Status: StatusSent}
		}(i, recipient)
	}
	wg.Wait()
	return outcomes
}

// Tally counts outcomes by status.
func Tally(outcomes []Outcome) (sent, skipped, failed int) {
	for _, outcome := range outcomes {
		switch outcome.Status {
		case StatusSent:
			sent++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return sent, skipped, failed
}
