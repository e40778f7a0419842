// Package mock provides test doubles for the listing service.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses).
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wanderlust/travel-listing-service/internal/domain"
)

// Call records one FetchPage invocation.
type Call struct {
	Query   string
	Page    int
	Variant domain.FetchVariant
}

// Source is a configurable mock implementation of domain.DataSource.
// It paginates a fixed item list and supports configurable delays and
// errors for testing timeouts, stale responses and failures.
type Source struct {
	name     string
	items    map[domain.FetchVariant][]domain.Item
	pageSize int
	err      error
	delay    time.Duration
	delayFor func(filters domain.FilterSet) time.Duration

	mu    sync.Mutex
	calls []Call
}

// NewSource creates a new mock source with the given name.
// The source is configured using the builder pattern methods.
func NewSource(name string) *Source {
	return &Source{
		name:     name,
		items:    make(map[domain.FetchVariant][]domain.Item),
		pageSize: 6,
	}
}

// WithItems configures the items returned for a variant.
func (s *Source) WithItems(variant domain.FetchVariant, items []domain.Item) *Source {
	s.items[variant] = items
	return s
}

// WithPageSize sets how many items one page holds.
func (s *Source) WithPageSize(n int) *Source {
	s.pageSize = n
	return s
}

// WithError configures the source to return the given error.
func (s *Source) WithError(err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// WithDelay configures the source to wait the given duration before responding.
// This is useful for testing timeout behavior.
func (s *Source) WithDelay(d time.Duration) *Source {
	s.delay = d
	return s
}

// WithDelayFor picks the delay per request, which lets a test make an older
// request finish after a newer one.
func (s *Source) WithDelayFor(fn func(filters domain.FilterSet) time.Duration) *Source {
	s.delayFor = fn
	return s
}

// Name returns the source's identifier.
func (s *Source) Name() string {
	return s.name
}

// FetchPage implements domain.DataSource.FetchPage.
// It respects context cancellation, applies the configured delay,
// and returns the configured items or error.
func (s *Source) FetchPage(ctx context.Context, filters domain.FilterSet, page int, variant domain.FetchVariant) (*domain.ListingResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Query: filters.Encode(), Page: page, Variant: variant})
	err := s.err
	s.mu.Unlock()

	delay := s.delay
	if s.delayFor != nil {
		delay = s.delayFor(filters)
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	all := s.items[variant]
	p := domain.PageFor(page, s.pageSize, len(all))
	start := (p.Current - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	out := make([]domain.Item, end-start)
	copy(out, all[start:end])
	return domain.NewListingResult(out, p), nil
}

// CallCount returns the number of times FetchPage was called.
func (s *Source) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Calls returns a copy of the recorded calls.
func (s *Source) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Reset clears the recorded calls.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Ensure Source implements domain.DataSource at compile time.
var _ domain.DataSource = (*Source)(nil)

// SampleDeals returns count deals with realistic, valid fields.
func SampleDeals(prefix string, count int) []domain.Item {
	cities := []string{"Paris", "Bali", "Rome", "Tokyo", "Sydney", "New York"}
	items := make([]domain.Item, count)
	for i := 0; i < count; i++ {
		price, err := domain.NewPrice(float64(800+i*150), float64(10+i%4*5))
		if err != nil {
			panic(err)
		}
		rating := 4.0 + float64(i%10)/10
		city := cities[i%len(cities)]
		items[i] = domain.Item{
			ID:          fmt.Sprintf("%s-deal-%d", prefix, i+1),
			Kind:        domain.KindDeal,
			Title:       fmt.Sprintf("%s Getaway %d", city, i+1),
			Category:    "package",
			Destination: city,
			Image:       fmt.Sprintf("https://images.example.com/%s-%d.jpg", prefix, i+1),
			Price:       &price,
			Rating:      &rating,
			Reviews:     100 + i*7,
			Duration:    &domain.Duration{Days: 5, Nights: 4},
			Travelers:   2,
			Featured:    i < 3,
		}
	}
	return items
}

// SampleDestinations returns count ranked destinations.
func SampleDestinations(prefix string, count int) []domain.Item {
	directions := []domain.TrendDirection{domain.TrendUp, domain.TrendDown, domain.TrendNeutral}
	items := make([]domain.Item, count)
	for i := 0; i < count; i++ {
		items[i] = domain.Item{
			ID:          fmt.Sprintf("%s-dest-%d", prefix, i+1),
			Kind:        domain.KindDestination,
			Title:       fmt.Sprintf("%s City %d", prefix, i+1),
			Description: "Old town, harbour walks and night markets.",
			Image:       fmt.Sprintf("https://images.example.com/%s-dest-%d.jpg", prefix, i+1),
			Rank:        i + 1,
			Tags:        []string{"culture", "food"},
			Trend:       &domain.Trend{Direction: directions[i%len(directions)], Percent: 5 + i},
		}
	}
	return items
}
