// AngelaMos | 2026
// dto.go

package place

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PlaceRequest struct {
	Name            string              `json:"name"             validate:"required,max=255"`
	Address         string              `json:"address"          validate:"required,max=500"`
	InstagramHandle *string             `json:"instagram_handle" validate:"omitempty,max=100"`
	CoffeeQuality   int                 `json:"coffee_quality"`
	Ambient         int                 `json:"ambient"`
	HasGlutenFree   bool                `json:"has_gluten_free"`
	HasVegMilk      bool                `json:"has_veg_milk"`
	HasVeganFood    bool                `json:"has_vegan_food"`
	HasSugarFree    bool                `json:"has_sugar_free"`
	Latitude        decimal.NullDecimal `json:"latitude"`
	Longitude       decimal.NullDecimal `json:"longitude"`
}

func (r PlaceRequest) Fields() Fields {
	var handle *string
	if r.InstagramHandle != nil {
		trimmed := strings.TrimSpace(*r.InstagramHandle)
		if trimmed != "" {
			handle = &trimmed
		}
	}

	return Fields{
		Name:            strings.TrimSpace(r.Name),
		Address:         strings.TrimSpace(r.Address),
		InstagramHandle: handle,
		CoffeeQuality:   r.CoffeeQuality,
		Ambient:         r.Ambient,
		HasGlutenFree:   r.HasGlutenFree,
		HasVegMilk:      r.HasVegMilk,
		HasVeganFood:    r.HasVeganFood,
		HasSugarFree:    r.HasSugarFree,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

type PlaceResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Address          string              `json:"address"`
	InstagramHandle  *string             `json:"instagram_handle"`
	CoffeeQuality    int                 `json:"coffee_quality"`
	Ambient          int                 `json:"ambient"`
	HasGlutenFree    bool                `json:"has_gluten_free"`
	HasVegMilk       bool                `json:"has_veg_milk"`
	HasVeganFood     bool                `json:"has_vegan_food"`
	HasSugarFree     bool                `json:"has_sugar_free"`
	Latitude         decimal.NullDecimal `json:"latitude"`
	Longitude        decimal.NullDecimal `json:"longitude"`
	HasPhoto         bool                `json:"has_photo"`
	PhotoContentType *string             `json:"photo_content_type,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func ToPlaceResponse(p *Place) PlaceResponse {
	return PlaceResponse{
		ID:               p.ID,
		Name:             p.Name,
		Address:          p.Address,
		InstagramHandle:  p.InstagramHandle,
		CoffeeQuality:    p.CoffeeQuality,
		Ambient:          p.Ambient,
		HasGlutenFree:    p.HasGlutenFree,
		HasVegMilk:       p.HasVegMilk,
		HasVeganFood:     p.HasVeganFood,
		HasSugarFree:     p.HasSugarFree,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		HasPhoto:         p.HasPhoto,
		PhotoContentType: p.PhotoContentType,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToPlaceResponseList(places []Place) []PlaceResponse {
	responses := make([]PlaceResponse, 0, len(places))
	for i := range places {
		responses = append(responses, ToPlaceResponse(&places[i]))
	}
	return responses
}
