// AngelaMos | 2026
// service.go

package place

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/beanscore/internal/config"
	"github.com/carterperez-dev/beanscore/internal/core"
)

const (
	minRating         = 1
	maxRating         = 5
	maxAddressLength  = 500
	coordinateDecimal = 8
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// Service exposes place operations. Every method takes the caller's user id
// as ownerID and never reads or writes a place owned by anyone else.
type Service struct {
	repo             Repository
	tx               core.Transactor
	cache            AssetCache
	thumbnailMaxEdge int
}

func NewService(
	repo Repository,
	tx core.Transactor,
	cache AssetCache,
	cfg config.PhotoConfig,
) *Service {
	if cache == nil {
		cache = nopCache{}
	}

	return &Service{
		repo:             repo,
		tx:               tx,
		cache:            cache,
		thumbnailMaxEdge: cfg.ThumbnailMaxEdge,
	}
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("list places: %w", core.ErrUnauthorized)
	}

	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("get place: %w", core.ErrUnauthorized)
	}

	return s.repo.FindByIDAndOwner(ctx, id, ownerID)
}

func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	fields Fields,
) (*Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("create place: %w", core.ErrUnauthorized)
	}

	if err := validateFields(fields); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}

	place := Place{
		ID:     uuid.New().String(),
		UserID: ownerID,
	}.withFields(fields)

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		return s.repo.WithTx(tx).Create(ctx, &place)
	})
	if err != nil {
		return nil, err
	}

	return &place, nil
}

// Update replaces every mutable attribute. The stored row is loaded, a new
// value is built from it, and that value is written back, all in one
// transaction.
func (s *Service) Update(
	ctx context.Context,
	ownerID, id string,
	fields Fields,
) (*Place, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("update place: %w", core.ErrUnauthorized)
	}

	if err := validateFields(fields); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}

	var updated Place
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}

		updated = current.withFields(fields)
		return repo.Update(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return fmt.Errorf("delete place: %w", core.ErrUnauthorized)
	}

	return s.tx.InTx(ctx, func(tx core.DBTX) error {
		n, err := s.repo.WithTx(tx).DeleteByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("delete place: %w", core.ErrNotFound)
		}
		return nil
	})
}

func validateFields(f Fields) error {
	if strings.TrimSpace(f.Name) == "" {
		return core.NewValidationError("name", "must not be blank")
	}

	if strings.TrimSpace(f.Address) == "" {
		return core.NewValidationError("address", "must not be blank")
	}

	if utf8.RuneCountInString(f.Address) > maxAddressLength {
		return core.NewValidationError(
			"address",
			fmt.Sprintf("must be at most %d characters", maxAddressLength),
		)
	}

	if err := validateRating("coffee_quality", f.CoffeeQuality); err != nil {
		return err
	}

	if err := validateRating("ambient", f.Ambient); err != nil {
		return err
	}

	if err := validateCoordinate("latitude", f.Latitude, maxLatitude); err != nil {
		return err
	}

	return validateCoordinate("longitude", f.Longitude, maxLongitude)
}

func validateRating(field string, v int) error {
	if v < minRating || v > maxRating {
		return core.NewValidationError(
			field,
			fmt.Sprintf("must be between %d and %d", minRating, maxRating),
		)
	}
	return nil
}

func validateCoordinate(
	field string,
	v decimal.NullDecimal,
	limit decimal.Decimal,
) error {
	if !v.Valid {
		return nil
	}

	if v.Decimal.Abs().GreaterThan(limit) {
		return core.NewValidationError(
			field,
			fmt.Sprintf("must be between -%s and %s", limit, limit),
		)
	}

	if !v.Decimal.Round(coordinateDecimal).Equal(v.Decimal) {
		return core.NewValidationError(
			field,
			fmt.Sprintf("must have at most %d decimal places", coordinateDecimal),
		)
	}

	return nil
}
