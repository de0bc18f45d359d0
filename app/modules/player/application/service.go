package playerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	playerdb "github.com/fairway-collective/foursome/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// PlayerService implements the Service interface.
type PlayerService struct {
	repo   playerdb.Repository
	db     TxRunner
	logger *slog.Logger
}

var _ Service = (*PlayerService)(nil)

// NewPlayerService creates a new PlayerService.
func NewPlayerService(repo playerdb.Repository, db TxRunner, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// EnsureForUser returns the subject's player, creating the user record and
// the player as needed. Players are created lazily on first signup and never
// auto-deleted.
func (s *PlayerService) EnsureForUser(ctx context.Context, subject, name, email string) (*playerdb.Player, error) {
	if subject == "" {
		return nil, ErrMissingSubject
	}
	if name == "" {
		name = "Unknown"
	}

	var player *playerdb.Player
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.repo.GetUserBySubject(ctx, tx, subject)
		if err != nil {
			if !errors.Is(err, playerdb.ErrNotFound) {
				return fmt.Errorf("failed to look up user: %w", err)
			}
			user = &playerdb.User{Subject: subject}
			if err := s.repo.CreateUser(ctx, tx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		}

		if user.PlayerID != nil {
			player, err = s.repo.GetPlayer(ctx, tx, *user.PlayerID)
			if err != nil {
				return fmt.Errorf("failed to load linked player: %w", err)
			}
			return nil
		}

		player = &playerdb.Player{Name: name, Email: email}
		if err := s.repo.CreatePlayer(ctx, tx, player); err != nil {
			return fmt.Errorf("failed to create player: %w", err)
		}
		if err := s.repo.LinkPlayer(ctx, tx, user.ID, player.ID); err != nil {
			return fmt.Errorf("failed to link player to user: %w", err)
		}

		s.logger.InfoContext(ctx, "Player created for user",
			slog.String("subject", subject),
			slog.Int64("player_id", player.ID),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// ResolvePlayer returns the player linked to the subject without creating
// anything.
func (s *PlayerService) ResolvePlayer(ctx context.Context, subject string) (*playerdb.Player, error) {
	if subject == "" {
		return nil, ErrMissingSubject
	}

	user, err := s.repo.GetUserBySubject(ctx, nil, subject)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return nil, ErrNoPlayer
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PlayerID == nil {
		return nil, ErrNoPlayer
	}

	player, err := s.repo.GetPlayer(ctx, nil, *user.PlayerID)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return nil, ErrNoPlayer
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return player, nil
}
