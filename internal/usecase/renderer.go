package usecase

import (
	"fmt"
	"strconv"

	"github.com/wanderlust/travel-listing-service/internal/domain"
)

// CardVariant is the rendering mode of an item.
type CardVariant string

// Card variants.
const (
	CardGrid       CardVariant = "grid"
	CardHorizontal CardVariant = "horizontal"
	CardRanked     CardVariant = "ranked"
)

// Medal styles for ranked cards.
const (
	MedalGold   = "gold"
	MedalSilver = "silver"
	MedalBronze = "bronze"
)

// Fragment is the structured view of one item, ready to be mounted by the page.
type Fragment struct {
	ID          string      `json:"id"`
	Variant     CardVariant `json:"variant"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       *Image      `json:"image,omitempty"`

	Ranking *Ranking     `json:"ranking,omitempty"`
	Trend   *TrendBadge  `json:"trend,omitempty"`
	Price   *PriceBlock  `json:"price,omitempty"`
	Rating  *RatingBlock `json:"rating,omitempty"`

	Badges  []Label  `json:"badges,omitempty"`
	Details []Detail `json:"details,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Action  Action   `json:"action"`
}

// Image is a lazily loaded card image.
type Image struct {
	Src  string `json:"src"`
	Alt  string `json:"alt"`
	Lazy bool   `json:"lazy"`
}

// Ranking is the position marker of a ranked card.
type Ranking struct {
	Position int `json:"position"`

	// Medal is gold, silver or bronze for the first three positions, empty otherwise
	Medal string `json:"medal,omitempty"`
}

// TrendBadge shows a destination's popularity movement.
type TrendBadge struct {
	Direction domain.TrendDirection `json:"direction"`
	Label     string                `json:"label"`
	Percent   int                   `json:"percent"`
	Style     string                `json:"style"`
	Text      string                `json:"text"`
}

// PriceBlock shows the discounted price of a deal.
type PriceBlock struct {
	Original string `json:"original"`
	Final    string `json:"final"`
	Ribbon   string `json:"ribbon"`
}

// RatingBlock shows a rating and review count.
type RatingBlock struct {
	Score   string `json:"score"`
	Reviews string `json:"reviews"`
}

// Label is a styled badge.
type Label struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// Detail is an icon/text pair of trip details.
type Detail struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Action is the call to action of a card.
type Action struct {
	Label     string `json:"label"`
	AriaLabel string `json:"ariaLabel"`
	TargetID  string `json:"targetId"`
}

// Render maps an item and a card variant to a view fragment.
// It is a pure function: no I/O and no shared state.
func Render(item domain.Item, variant CardVariant) Fragment {
	if variant != CardHorizontal && variant != CardRanked {
		variant = CardGrid
	}

	f := Fragment{
		ID:          item.ID,
		Variant:     variant,
		Title:       item.Title,
		Subtitle:    item.Destination,
		Description: item.Description,
	}
	if item.Image != "" {
		f.Image = &Image{Src: item.Image, Alt: item.Title, Lazy: true}
	}
	if variant == CardRanked && item.Rank > 0 {
		f.Ranking = &Ranking{Position: item.Rank, Medal: medalFor(item.Rank)}
	}

	switch item.Kind {
	case domain.KindDeal:
		renderDeal(&f, item)
	default:
		renderDestination(&f, item)
	}
	return f
}

// RenderAll renders items in order.
func RenderAll(items []domain.Item, variant CardVariant) []Fragment {
	out := make([]Fragment, 0, len(items))
	for _, item := range items {
		out = append(out, Render(item, variant))
	}
	return out
}

func renderDeal(f *Fragment, item domain.Item) {
	if item.Price != nil {
		f.Price = &PriceBlock{
			Original: formatMoney(item.Price.Original),
			Final:    formatMoney(item.Price.Final),
			Ribbon:   fmt.Sprintf("-%s%%", strconv.FormatFloat(item.Price.Discount, 'f', -1, 64)),
		}
	}
	if item.Badge != nil {
		f.Badges = append(f.Badges, Label{Text: item.Badge.Label, Style: item.Badge.Style})
	}
	if item.Duration != nil {
		f.Details = append(f.Details,
			Detail{Icon: "calendar", Text: plural(item.Duration.Days, "Day")},
			Detail{Icon: "moon", Text: plural(item.Duration.Nights, "Night")},
		)
	}
	if item.Travelers > 0 {
		f.Details = append(f.Details, Detail{Icon: "travelers", Text: plural(item.Travelers, "Adult")})
	}
	f.Tags = item.Tags
	f.Action = Action{Label: "View Deal", AriaLabel: "View " + item.Title, TargetID: item.ID}
}

func renderDestination(f *Fragment, item domain.Item) {
	if item.Trend != nil {
		f.Trend = trendBadge(*item.Trend)
	}
	if item.Rating != nil {
		f.Rating = &RatingBlock{
			Score:   strconv.FormatFloat(*item.Rating, 'f', 1, 64),
			Reviews: fmt.Sprintf("(%d reviews)", item.Reviews),
		}
	}
	f.Tags = item.Tags
	if item.Seasonal {
		f.Badges = append(f.Badges, Label{Text: "Seasonal", Style: "warning"})
	}
	f.Action = Action{Label: "View Details", AriaLabel: "View details for " + item.Title, TargetID: item.ID}
}

func trendBadge(t domain.Trend) *TrendBadge {
	b := &TrendBadge{Direction: t.Direction, Percent: t.Percent}
	switch t.Direction {
	case domain.TrendUp:
		b.Label, b.Style = "Rising", "success"
	case domain.TrendDown:
		b.Label, b.Style = "Declining", "danger"
	default:
		b.Direction = domain.TrendNeutral
		b.Label, b.Style = "Stable", "secondary"
	}
	b.Text = fmt.Sprintf("%s %d%%", b.Label, t.Percent)
	return b
}

func medalFor(rank int) string {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return ""
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// formatMoney formats an amount as whole dollars with thousands separators,
// or with cents when the amount is fractional.
func formatMoney(amount float64) string {
	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if frac != 0 {
		return fmt.Sprintf("$%s.%02d", out, frac)
	}
	return "$" + string(out)
}
