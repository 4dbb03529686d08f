// AngelaMos | 2026
// entity.go

package place

import (
	"time"

	"github.com/shopspring/decimal"
)

// Place is a coffee place review owned by exactly one user. UserID never
// changes after creation.
type Place struct {
	ID               string              `db:"id"`
	UserID           string              `db:"user_id"`
	Name             string              `db:"name"`
	Address          string              `db:"address"`
	InstagramHandle  *string             `db:"instagram_handle"`
	CoffeeQuality    int                 `db:"coffee_quality"`
	Ambient          int                 `db:"ambient"`
	HasGlutenFree    bool                `db:"has_gluten_free"`
	HasVegMilk       bool                `db:"has_veg_milk"`
	HasVeganFood     bool                `db:"has_vegan_food"`
	HasSugarFree     bool                `db:"has_sugar_free"`
	Latitude         decimal.NullDecimal `db:"latitude"`
	Longitude        decimal.NullDecimal `db:"longitude"`
	PhotoContentType *string             `db:"photo_content_type"`
	HasPhoto         bool                `db:"has_photo"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}

// Fields holds every attribute a user may set on a place. Updates always
// carry the full set.
type Fields struct {
	Name            string
	Address         string
	InstagramHandle *string
	CoffeeQuality   int
	Ambient         int
	HasGlutenFree   bool
	HasVegMilk      bool
	HasVeganFood    bool
	HasSugarFree    bool
	Latitude        decimal.NullDecimal
	Longitude       decimal.NullDecimal
}

// withFields returns a copy of p with every mutable attribute replaced.
func (p Place) withFields(f Fields) Place {
	p.Name = f.Name
	p.Address = f.Address
	p.InstagramHandle = f.InstagramHandle
	p.CoffeeQuality = f.CoffeeQuality
	p.Ambient = f.Ambient
	p.HasGlutenFree = f.HasGlutenFree
	p.HasVegMilk = f.HasVegMilk
	p.HasVeganFood = f.HasVeganFood
	p.HasSugarFree = f.HasSugarFree
	p.Latitude = f.Latitude
	p.Longitude = f.Longitude
	return p
}

type AssetKind string

const (
	AssetPhoto     AssetKind = "photo"
	AssetThumbnail AssetKind = "thumbnail"
)

// Asset is one stored image together with the row version it was read at.
type Asset struct {
	Data        []byte    `db:"data"`
	ContentType string    `db:"photo_content_type"`
	Version     time.Time `db:"updated_at"`
}

type PhotoUpload struct {
	Photo       []byte
	Thumbnail   []byte
	ContentType string
}
