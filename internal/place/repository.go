// AngelaMos | 2026
// repository.go

package place

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/beanscore/internal/core"
)

// Repository scopes every statement by owner. A place that exists but
// belongs to someone else is reported exactly like a missing one.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Place, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*Place, error)
	Create(ctx context.Context, place *Place) error
	Update(ctx context.Context, place *Place) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error)
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
	SetPhoto(ctx context.Context, id, ownerID string, upload PhotoUpload) error
	ClearPhoto(ctx context.Context, id, ownerID string) (int64, error)
	GetAsset(
		ctx context.Context,
		id, ownerID string,
		kind AssetKind,
	) (*Asset, error)
	WithTx(tx core.DBTX) Repository
}

const placeColumns = `
	id, user_id, name, address, instagram_handle, coffee_quality, ambient,
	has_gluten_free, has_veg_milk, has_vegan_food, has_sugar_free,
	latitude, longitude, photo_content_type,
	photo IS NOT NULL AS has_photo,
	created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]Place, error) {
	query := `SELECT ` + placeColumns + `
		FROM coffee_places
		WHERE user_id = $1
		ORDER BY created_at, id`

	places := []Place{}
	if err := r.db.SelectContext(ctx, &places, query, ownerID); err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	return places, nil
}

func (r *repository) FindByIDAndOwner(
	ctx context.Context,
	id, ownerID string,
) (*Place, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("find place: %w", core.ErrNotFound)
	}

	query := `SELECT ` + placeColumns + `
		FROM coffee_places
		WHERE id = $1 AND user_id = $2`

	var place Place
	err := r.db.GetContext(ctx, &place, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find place: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find place: %w", err)
	}

	return &place, nil
}

func (r *repository) Create(ctx context.Context, place *Place) error {
	query := `
		INSERT INTO coffee_places (
			id, user_id, name, address, instagram_handle,
			coffee_quality, ambient,
			has_gluten_free, has_veg_milk, has_vegan_food, has_sugar_free,
			latitude, longitude
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		place.ID,
		place.UserID,
		place.Name,
		place.Address,
		place.InstagramHandle,
		place.CoffeeQuality,
		place.Ambient,
		place.HasGlutenFree,
		place.HasVegMilk,
		place.HasVeganFood,
		place.HasSugarFree,
		place.Latitude,
		place.Longitude,
	).Scan(&place.CreatedAt, &place.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create place: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, place *Place) error {
	query := `
		UPDATE coffee_places
		SET name = $3,
		    address = $4,
		    instagram_handle = $5,
		    coffee_quality = $6,
		    ambient = $7,
		    has_gluten_free = $8,
		    has_veg_milk = $9,
		    has_vegan_food = $10,
		    has_sugar_free = $11,
		    latitude = $12,
		    longitude = $13,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		place.ID,
		place.UserID,
		place.Name,
		place.Address,
		place.InstagramHandle,
		place.CoffeeQuality,
		place.Ambient,
		place.HasGlutenFree,
		place.HasVegMilk,
		place.HasVeganFood,
		place.HasSugarFree,
		place.Latitude,
		place.Longitude,
	).Scan(&place.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update place: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}

	return nil
}

func (r *repository) DeleteByIDAndOwner(
	ctx context.Context,
	id, ownerID string,
) (int64, error) {
	if !isUUID(id) {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM coffee_places WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete place: %w", err)
	}

	return rows, nil
}

func (r *repository) DeleteAllByOwner(
	ctx context.Context,
	ownerID string,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM coffee_places WHERE user_id = $1`,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete places for owner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete places for owner: %w", err)
	}

	return rows, nil
}

// SetPhoto writes photo, thumbnail and content type in one statement.
func (r *repository) SetPhoto(
	ctx context.Context,
	id, ownerID string,
	upload PhotoUpload,
) error {
	if !isUUID(id) {
		return fmt.Errorf("set photo: %w", core.ErrNotFound)
	}

	query := `
		UPDATE coffee_places
		SET photo = $3,
		    photo_thumbnail = $4,
		    photo_content_type = $5,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		id,
		ownerID,
		upload.Photo,
		upload.Thumbnail,
		upload.ContentType,
	)
	if err != nil {
		return fmt.Errorf("set photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set photo: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set photo: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ClearPhoto(
	ctx context.Context,
	id, ownerID string,
) (int64, error) {
	if !isUUID(id) {
		return 0, nil
	}

	query := `
		UPDATE coffee_places
		SET photo = NULL,
		    photo_thumbnail = NULL,
		    photo_content_type = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear photo: %w", err)
	}

	return rows, nil
}

// GetAsset returns ErrNoPhoto when the place exists without a stored image.
func (r *repository) GetAsset(
	ctx context.Context,
	id, ownerID string,
	kind AssetKind,
) (*Asset, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}

	column := "photo"
	if kind == AssetThumbnail {
		column = "photo_thumbnail"
	}

	query := `
		SELECT ` + column + ` AS data,
		       COALESCE(photo_content_type, '') AS photo_content_type,
		       updated_at
		FROM coffee_places
		WHERE id = $1 AND user_id = $2`

	var asset Asset
	err := r.db.GetContext(ctx, &asset, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}

	if asset.Data == nil || asset.ContentType == "" {
		return nil, fmt.Errorf("get asset: %w", ErrNoPhoto)
	}

	return &asset, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
