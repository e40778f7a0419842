// Package domain contains the core entities and rules of the listing pipeline.
// These entities are source-agnostic: the fixture catalog, the remote client and
// the cache all speak in these types.
package domain

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ItemKind identifies what an Item describes.
type ItemKind string

// Supported item kinds.
const (
	KindDeal        ItemKind = "deal"
	KindDestination ItemKind = "destination"
)

// Item is a single displayable entity in a listing (a deal or a destination).
type Item struct {
	// ID is unique within a result set and never empty
	ID string `json:"id" validate:"required"`

	Kind ItemKind `json:"kind" validate:"required,oneof=deal destination"`

	// Title is the display title (e.g., "Paris Luxury hotel")
	Title string `json:"title" validate:"required"`

	// Category is the deal type for deals, the primary tag for destinations
	Category string `json:"category"`

	// Destination is the city the item is about
	Destination string `json:"destination,omitempty"`

	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`

	// Price is only present for deals
	Price *Price `json:"price,omitempty"`

	// Rank is the 1-based position for ranked listings (0 when unranked)
	Rank int `json:"rank,omitempty" validate:"gte=0"`

	Tags []string `json:"tags,omitempty"`

	// Rating is an optional average score between 0.0 and 5.0
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`

	// Reviews is the number of reviews behind Rating
	Reviews int `json:"reviews,omitempty" validate:"gte=0"`

	// Trend is only present when trend data exists for a destination
	Trend *Trend `json:"trend,omitempty"`

	Badge    *Badge    `json:"badge,omitempty"`
	Duration *Duration `json:"duration,omitempty"`

	// Travelers is the number of adults a package is priced for
	Travelers int `json:"travelers,omitempty" validate:"gte=0"`

	Featured bool `json:"featured,omitempty"`
	Seasonal bool `json:"seasonal,omitempty"`
}

// Price holds the original price, the discount percentage and the final price.
type Price struct {
	Original float64 `json:"original" validate:"gte=0"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
	Final    float64 `json:"final" validate:"gte=0"`
}

// TrendDirection is the popularity direction of a destination.
type TrendDirection string

// Trend directions.
const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// Trend describes how a destination's popularity is moving.
type Trend struct {
	Direction TrendDirection `json:"direction" validate:"required,oneof=up down neutral"`
	Percent   int            `json:"percent" validate:"gte=0,lte=100"`
}

// Badge is a short highlighted label on a card.
type Badge struct {
	Label string `json:"label" validate:"required"`

	// Style is a presentation hint: success, danger, info or warning
	Style string `json:"style" validate:"required"`
}

// Duration is the length of a trip.
type Duration struct {
	Days   int `json:"days" validate:"gte=1"`
	Nights int `json:"nights" validate:"gte=0"`
}

// priceTolerance bounds float drift when checking Final against the formula.
const priceTolerance = 0.005

// NewPrice builds a Price with Final = Original * (1 - Discount/100).
// Discount must be within [0, 100] and Original must not be negative.
func NewPrice(original, discount float64) (Price, error) {
	if original < 0 {
		return Price{}, fmt.Errorf("%w: original price must not be negative, got %v", ErrInvalidItem, original)
	}
	if discount < 0 || discount > 100 {
		return Price{}, fmt.Errorf("%w: discount must be between 0 and 100, got %v", ErrInvalidItem, discount)
	}
	return Price{
		Original: original,
		Discount: discount,
		Final:    original * (1 - discount/100),
	}, nil
}

// Consistent reports whether Final matches the discount formula.
func (p Price) Consistent() bool {
	want := p.Original * (1 - p.Discount/100)
	return math.Abs(want-p.Final) <= priceTolerance
}

var (
	itemValidator     *validator.Validate
	itemValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	itemValidatorOnce.Do(func() {
		itemValidator = validator.New()
	})
	return itemValidator
}

// Validate checks the item invariants.
// Returns a wrapped ErrInvalidItem describing the first failure.
func (i *Item) Validate() error {
	if err := getValidator().Struct(i); err != nil {
		return fmt.Errorf("%w: item %q: %v", ErrInvalidItem, i.ID, err)
	}
	if i.Price != nil && !i.Price.Consistent() {
		return fmt.Errorf("%w: item %q: final price %.2f does not match %.2f less %.0f%%",
			ErrInvalidItem, i.ID, i.Price.Final, i.Price.Original, i.Price.Discount)
	}
	return nil
}

// ValidateItems validates every item and rejects duplicate identifiers.
func ValidateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for idx := range items {
		if err := items[idx].Validate(); err != nil {
			return err
		}
		if _, dup := seen[items[idx].ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidItem, items[idx].ID)
		}
		seen[items[idx].ID] = struct{}{}
	}
	return nil
}
