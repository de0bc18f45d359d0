package inboxservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	roundservice "github.com/fairway-collective/foursome/app/modules/round/application"
	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
)

// Source fetches candidate confirmation messages from the external mailbox.
// Implementations own transport, auth and read-state handling; the watcher
// never touches the wire directly.
type Source interface {
	FetchUnread(ctx context.Context) ([]Message, error)
}

// Proposer is the slice of the round service the watcher needs.
type Proposer interface {
	ProposeRound(ctx context.Context, in roundservice.ProposeRoundInput) (*rounddb.Round, bool, error)
}

// Watcher polls the inbox for tee-time confirmations and proposes rounds
// from them. Parsing is best effort: unparsable messages are logged and
// skipped, and duplicate proposals are swallowed by the round service.
type Watcher struct {
	source Source
	rounds Proposer
	parser *Parser
	logger *slog.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(source Source, rounds Proposer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		source: source,
		rounds: rounds,
		parser: NewParser(),
		logger: logger,
	}
}

// CheckInbox performs one poll: fetch unread confirmations, parse each and
// propose the extracted rounds. Scheduling lives in the job queue; failures
// here surface to the worker and are retried on the next poll.
func (w *Watcher) CheckInbox(ctx context.Context) error {
	runID := uuid.NewString()
	logger := w.logger.With(slog.String("run_id", runID))

	messages, err := w.source.FetchUnread(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch inbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}
	logger.InfoContext(ctx, "Fetched inbox messages", slog.Int("count", len(messages)))

	now := time.Now().UTC()
	for _, msg := range messages {
		if !IsConfirmation(msg.Subject) {
			continue
		}

		candidate, err := w.parser.Parse(msg, now)
		if err != nil {
			if errors.Is(err, ErrNotConfirmation) {
				continue
			}
			logger.WarnContext(ctx, "Skipping unparsable confirmation",
				slog.String("message_id", msg.ID),
				slog.Any("error", err),
			)
			continue
		}

		_, created, err := w.rounds.ProposeRound(ctx, roundservice.ProposeRoundInput{
			Course:  candidate.Course,
			Date:    candidate.Date,
			Golfers: candidate.Golfers,
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to propose round from message",
				slog.String("message_id", msg.ID),
				slog.String("course", candidate.Course),
				slog.Any("error", err),
			)
			continue
		}
		if created {
			logger.InfoContext(ctx, "Round proposed from confirmation",
				slog.String("message_id", msg.ID),
				slog.String("course", candidate.Course),
				slog.Time("date", candidate.Date),
			)
		}
	}
	return nil
}
