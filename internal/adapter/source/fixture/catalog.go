package fixture

import (
	"fmt"
	"strings"

	"github.com/wanderlust/travel-listing-service/internal/domain"
)

// dealRecord is a catalog deal plus the attributes only the fixture filters on.
type dealRecord struct {
	item       domain.Item
	slug       string
	month      string
	priceRange string
}

var (
	dealCities     = []string{"Paris", "Bali", "New York", "Rome", "Tokyo", "Sydney"}
	dealTypes      = []string{"hotel", "flight", "package", "last-minute"}
	basePrices     = []float64{1200, 1800, 2200, 3200, 2800, 1500}
	discounts      = []float64{10, 15, 20, 25, 30, 5}
	cyclePriceMult = []float64{1, 0.5, 1.5}
	badgeLabels    = []string{"Limited Time", "Popular", "New", "Last Minute"}
	badgeStyles    = []string{"success", "danger", "info", "warning"}
	months         = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
)

// DealCatalogSize is the number of deals in the fixture catalog.
const DealCatalogSize = 18

// buildDeals generates the deals catalog. The output depends only on the index
// of each deal, so every call returns the same catalog.
func buildDeals() ([]dealRecord, error) {
	records := make([]dealRecord, 0, DealCatalogSize)
	for i := 0; i < DealCatalogSize; i++ {
		city := dealCities[i%len(dealCities)]
		dealType := dealTypes[i%len(dealTypes)]
		featured := i%len(dealCities) == 0

		price, err := domain.NewPrice(basePrices[i%len(basePrices)]*cyclePriceMult[i/len(basePrices)], discounts[i%len(discounts)])
		if err != nil {
			return nil, err
		}

		tier := "Premium"
		if featured {
			tier = "Luxury"
		}

		item := domain.Item{
			ID:          fmt.Sprintf("deal-%02d", i+1),
			Kind:        domain.KindDeal,
			Title:       fmt.Sprintf("%s %s %s", city, tier, strings.ReplaceAll(dealType, "-", " ")),
			Category:    dealType,
			Destination: city,
			Description: fmt.Sprintf("Experience %s with this amazing %s deal.", city, dealType),
			Image:       imageURL(city, "travel"),
			Price:       &price,
			Rank:        i + 1,
			Badge:       &domain.Badge{Label: badgeLabels[i%len(badgeLabels)], Style: badgeStyles[i%len(badgeStyles)]},
			Duration:    &domain.Duration{Days: 3 + i%5, Nights: 2 + i%5},
			Travelers:   1 + i%4,
			Featured:    featured,
		}

		records = append(records, dealRecord{
			item:       item,
			slug:       slugify(city),
			month:      months[(i*5)%len(months)],
			priceRange: priceRangeOf(price.Final),
		})
	}
	return records, nil
}

// priceRangeOf buckets a final price into the deals page price ranges.
func priceRangeOf(final float64) string {
	switch {
	case final < 1000:
		return "under-1000"
	case final < 2000:
		return "1000-2000"
	case final < 3000:
		return "2000-3000"
	default:
		return "over-3000"
	}
}

var regionCities = map[string][]string{
	domain.RegionGlobal:   {"Paris", "Tokyo", "New York", "London", "Sydney", "Rome", "Barcelona", "Bali", "Dubai", "Singapore"},
	domain.RegionEurope:   {"Paris", "Rome", "Barcelona", "Amsterdam", "Santorini", "Prague", "Venice", "Edinburgh", "Copenhagen", "Athens"},
	domain.RegionAsia:     {"Tokyo", "Bangkok", "Bali", "Seoul", "Singapore", "Hong Kong", "Kyoto", "Hanoi", "Shanghai", "Mumbai"},
	domain.RegionAmericas: {"New York", "Cancun", "Rio de Janeiro", "Vancouver", "Machu Picchu", "Los Angeles", "Miami", "Toronto", "Buenos Aires", "Chicago"},
}

var (
	destinationTags = []string{"cultural", "beach", "mountain", "city", "historic"}
	trendCycle      = []domain.TrendDirection{domain.TrendUp, domain.TrendDown, domain.TrendNeutral}
)

// Destination list sizes and their offsets into a region's city list.
const (
	TopCount      = 5
	TrendingCount = 3
	SeasonalCount = 4

	trendingOffset = 5
	seasonalOffset = 8
)

// buildDestinations generates one destination list for a region.
// Ratings, reviews and trends are derived from the position and the city name.
func buildDestinations(region string, variant domain.FetchVariant) []domain.Item {
	cities, ok := regionCities[region]
	if !ok {
		region = domain.RegionGlobal
		cities = regionCities[region]
	}

	count, offset := TopCount, 0
	switch variant {
	case domain.VariantTrending:
		count, offset = TrendingCount, trendingOffset
	case domain.VariantSeasonal:
		count, offset = SeasonalCount, seasonalOffset
	}

	items := make([]domain.Item, 0, count)
	for i := 0; i < count; i++ {
		city := cities[(offset+i)%len(cities)]
		h := cityHash(city)
		tag := destinationTags[(i+h)%len(destinationTags)]
		rating := 4 + float64((i*37+h)%10)/10

		item := domain.Item{
			ID:          fmt.Sprintf("%s-%s-%d", variant, region, i+1),
			Kind:        domain.KindDestination,
			Title:       city,
			Category:    tag,
			Destination: domain.RegionTitle(region),
			Description: fmt.Sprintf("Experience the beauty of %s with our exclusive travel packages.", city),
			Image:       imageURL(city, "city"),
			Tags:        []string{tag},
			Rating:      &rating,
			Reviews:     50 + (i*131+h)%500,
		}

		switch variant {
		case domain.VariantTop:
			item.Rank = i + 1
		case domain.VariantTrending:
			item.Trend = &domain.Trend{
				Direction: trendCycle[(i+h)%len(trendCycle)],
				Percent:   1 + (i*11+h)%30,
			}
		case domain.VariantSeasonal:
			item.Seasonal = true
		}
		items = append(items, item)
	}
	return items
}

func cityHash(s string) int {
	h := 0
	for _, r := range s {
		h = (h*31 + int(r)) % 9973
	}
	return h
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func imageURL(city, topic string) string {
	return fmt.Sprintf("https://source.unsplash.com/random/600x400/?%s,%s", slugify(city), topic)
}
