// AngelaMos | 2026
// handler.go

package place

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/beanscore/internal/core"
	"github.com/carterperez-dev/beanscore/internal/middleware"
)

const (
	// photo, thumbnail and multipart framing
	maxUploadBody      = MaxPhotoSize + MaxThumbnailSize + 64<<10
	multipartMemory    = 4 << 20
	photoCacheControl  = "private, max-age=86400"
	thumbnailCacheCtrl = "private, max-age=3600"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	requireUser func(http.Handler) http.Handler,
) {
	r.Route("/coffee-places", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireUser)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{placeID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)

			r.Post("/photo", h.UploadPhoto)
			r.Get("/photo", h.GetPhoto)
			r.Delete("/photo", h.DeletePhoto)
			r.Get("/photo/thumbnail", h.GetThumbnail)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPlaceResponseList(places))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	place, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPlaceResponse(place))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlaceRequest(w, r)
	if !ok {
		return
	}

	place, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Fields(),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToPlaceResponse(place))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlaceRequest(w, r)
	if !ok {
		return
	}

	place, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
		req.Fields(),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPlaceResponse(place))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadBody {
		uploadTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uploadTooLarge(w)
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}

	photo, photoType, err := readFormFile(r, "photo")
	if err != nil {
		core.BadRequest(w, "invalid photo part")
		return
	}

	thumbnail, _, err := readFormFile(r, "thumbnail")
	if err != nil {
		core.BadRequest(w, "invalid thumbnail part")
		return
	}

	contentType := uploadContentType(r, photoType)

	err = h.service.UploadPhoto(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
		PhotoUpload{
			Photo:       photo,
			Thumbnail:   thumbnail,
			ContentType: contentType,
		},
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	asset, err := h.service.GetPhoto(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
	)
	writeAsset(w, asset, err, photoCacheControl)
}

func (h *Handler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	asset, err := h.service.GetThumbnail(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
	)
	writeAsset(w, asset, err, thumbnailCacheCtrl)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeletePhoto(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "placeID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) decodePlaceRequest(
	w http.ResponseWriter,
	r *http.Request,
) (PlaceRequest, bool) {
	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return req, false
	}

	return req, true
}

// uploadContentType prefers the contentType form field, then the
// content_type alias, then the photo part's own header.
func uploadContentType(r *http.Request, partType string) string {
	for _, field := range []string{"contentType", "content_type"} {
		if v := r.FormValue(field); v != "" {
			return v
		}
	}
	return partType
}

func uploadTooLarge(w http.ResponseWriter) {
	core.JSONError(w, core.ValidationFailed(
		core.NewValidationError("upload", "must be at most 2 MiB photo + 500 KiB thumbnail"),
	))
}

// readFormFile returns nil data for an absent part.
func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}

	return data, header.Header.Get("Content-Type"), nil
}

func writeAsset(w http.ResponseWriter, asset *Asset, err error, cacheControl string) {
	if err != nil {
		if errors.Is(err, ErrNoPhoto) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(asset.Data)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		core.JSONError(w, core.ValidationFailed(ve))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "coffee place")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
