// AngelaMos | 2026
// photo.go

package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/beanscore/internal/core"
)

const (
	MaxPhotoSize     = 2 << 20
	MaxThumbnailSize = 500 << 10

	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// ErrNoPhoto means the place exists and is owned by the caller but has no
// stored image.
var ErrNoPhoto = errors.New("no photo stored")

func validateUpload(upload PhotoUpload) error {
	if len(upload.Photo) == 0 {
		return core.NewValidationError("photo", "must not be empty")
	}

	if len(upload.Photo) > MaxPhotoSize {
		return core.NewValidationError("photo", "must be at most 2 MiB")
	}

	if len(upload.Thumbnail) > MaxThumbnailSize {
		return core.NewValidationError("thumbnail", "must be at most 500 KiB")
	}

	if upload.ContentType != ContentTypeJPEG &&
		upload.ContentType != ContentTypePNG {
		return core.NewValidationError(
			"content_type",
			"must be image/jpeg or image/png",
		)
	}

	return nil
}

// UploadPhoto stores photo, thumbnail and content type together. When no
// thumbnail is supplied one is derived from the photo.
func (s *Service) UploadPhoto(
	ctx context.Context,
	ownerID, id string,
	upload PhotoUpload,
) error {
	if ownerID == "" {
		return fmt.Errorf("upload photo: %w", core.ErrUnauthorized)
	}

	ctx, span := core.StartSpan(ctx, "place.UploadPhoto",
		attribute.String("place.id", id),
		attribute.Int("photo.size", len(upload.Photo)),
		attribute.String("photo.content_type", upload.ContentType),
	)
	defer span.End()

	if err := validateUpload(upload); err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByIDAndOwner(ctx, id, ownerID); err != nil {
			return err
		}

		if len(upload.Thumbnail) == 0 {
			thumb, err := s.deriveThumbnail(ctx, upload)
			if err != nil {
				return err
			}
			upload.Thumbnail = thumb
		}

		return repo.SetPhoto(ctx, id, ownerID, upload)
	})
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) && !errors.Is(err, core.ErrInvalidInput) {
			core.SetSpanError(ctx, err)
		}
		return err
	}

	slog.InfoContext(ctx, "photo uploaded",
		"place_id", id,
		"user_id", ownerID,
		"photo_bytes", len(upload.Photo),
		"thumbnail_bytes", len(upload.Thumbnail),
	)

	return nil
}

func (s *Service) deriveThumbnail(
	ctx context.Context,
	upload PhotoUpload,
) ([]byte, error) {
	_, span := core.StartSpan(ctx, "place.deriveThumbnail",
		attribute.Int("thumbnail.max_edge", s.thumbnailMaxEdge),
	)
	defer span.End()

	thumb, err := makeThumbnail(upload.Photo, upload.ContentType, s.thumbnailMaxEdge)
	if err != nil {
		return nil, core.NewValidationError(
			"photo",
			"could not be decoded as "+upload.ContentType,
		)
	}

	if len(thumb) > MaxThumbnailSize {
		return nil, core.NewValidationError(
			"thumbnail",
			"derived thumbnail exceeds 500 KiB",
		)
	}

	return thumb, nil
}

func (s *Service) GetPhoto(ctx context.Context, ownerID, id string) (*Asset, error) {
	return s.getAsset(ctx, ownerID, id, AssetPhoto)
}

func (s *Service) GetThumbnail(
	ctx context.Context,
	ownerID, id string,
) (*Asset, error) {
	return s.getAsset(ctx, ownerID, id, AssetThumbnail)
}

// getAsset resolves ownership against the database before touching the
// cache, so cached bytes are only ever served to the owner.
func (s *Service) getAsset(
	ctx context.Context,
	ownerID, id string,
	kind AssetKind,
) (*Asset, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("get %s: %w", kind, core.ErrUnauthorized)
	}

	place, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if !place.HasPhoto || place.PhotoContentType == nil {
		return nil, fmt.Errorf("get %s: %w", kind, ErrNoPhoto)
	}

	if data, ok := s.cache.Get(ctx, assetKey(kind, place.ID, place.UpdatedAt)); ok {
		return &Asset{
			Data:        data,
			ContentType: *place.PhotoContentType,
			Version:     place.UpdatedAt,
		}, nil
	}

	asset, err := s.repo.GetAsset(ctx, id, ownerID, kind)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, assetKey(kind, place.ID, asset.Version), asset.Data)

	return asset, nil
}

// DeletePhoto clears the stored image. Clearing a place that has no photo
// succeeds.
func (s *Service) DeletePhoto(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return fmt.Errorf("delete photo: %w", core.ErrUnauthorized)
	}

	return s.tx.InTx(ctx, func(tx core.DBTX) error {
		n, err := s.repo.WithTx(tx).ClearPhoto(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("delete photo: %w", core.ErrNotFound)
		}
		return nil
	})
}
