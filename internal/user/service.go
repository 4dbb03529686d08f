// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/beanscore/internal/auth"
	"github.com/carterperez-dev/beanscore/internal/core"
)

// PlaceRemover deletes every place a user owns and reports how many rows
// went away.
type PlaceRemover interface {
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}

// PlaceRemoverFactory binds a PlaceRemover to an open transaction.
type PlaceRemoverFactory func(tx core.DBTX) PlaceRemover

type Service struct {
	repo   Repository
	tx     core.Transactor
	places PlaceRemoverFactory
}

func NewService(
	repo Repository,
	tx core.Transactor,
	places PlaceRemoverFactory,
) *Service {
	return &Service{repo: repo, tx: tx, places: places}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, auth.NormalizeEmail(email))
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        auth.NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// DeleteAccount removes the user's places and then the user in a single
// transaction. Either everything is gone afterwards or nothing changed.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete account: %w", core.ErrUnauthorized)
	}

	var removed int64
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		users := s.repo.WithTx(tx)

		if _, err := users.GetByID(ctx, userID); err != nil {
			return err
		}

		n, err := s.places(tx).DeleteAllByOwner(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete places: %w", err)
		}
		removed = n

		return users.Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	slog.InfoContext(ctx, "account deleted",
		"user_id", userID,
		"places_removed", removed,
	)

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
