package usecase

import "github.com/wanderlust/travel-listing-service/internal/domain"

// PageLink is one entry of a pagination window: a page number or an ellipsis.
type PageLink struct {
	// Number is the page number (0 for an ellipsis)
	Number int `json:"number,omitempty"`

	// Ellipsis marks a gap between page numbers
	Ellipsis bool `json:"ellipsis,omitempty"`

	// Active marks the current page
	Active bool `json:"active,omitempty"`
}

// NavControl is a Previous or Next control. Disabled controls are still rendered.
type NavControl struct {
	Label    string `json:"label"`
	Page     int    `json:"page"`
	Disabled bool   `json:"disabled"`
}

// Pagination is the rendered pagination bar of a region.
type Pagination struct {
	Previous NavControl `json:"previous"`
	Links    []PageLink `json:"links"`
	Next     NavControl `json:"next"`
}

// ComputeWindow returns the page links to display for current out of total pages.
//
// Page 1 and page total are always included, plus current-1..current+1 clipped
// to [2, total-1]. An ellipsis is inserted wherever consecutive entries are not
// adjacent. current is clamped into [1, total] first.
//
//	ComputeWindow(5, 10) => 1 … 4 5 6 … 10
//	ComputeWindow(1, 1)  => 1
//	ComputeWindow(1, 0)  => (empty)
func ComputeWindow(current, total int) []PageLink {
	if total < 1 {
		return []PageLink{}
	}
	current = clamp(current, 1, total)

	numbers := make([]int, 0, 5)
	numbers = append(numbers, 1)
	for n := current - 1; n <= current+1; n++ {
		if n >= 2 && n <= total-1 {
			numbers = append(numbers, n)
		}
	}
	if total > 1 {
		numbers = append(numbers, total)
	}

	links := make([]PageLink, 0, len(numbers)+2)
	prev := 0
	for _, n := range numbers {
		if prev != 0 && n-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: n, Active: n == current})
		prev = n
	}
	return links
}

// BuildPagination renders the pagination bar for a fetched page.
func BuildPagination(page domain.Page) Pagination {
	last := page.TotalPages
	if last < 1 {
		last = 1
	}
	current := clamp(page.Current, 1, last)

	return Pagination{
		Previous: NavControl{
			Label:    "Previous",
			Page:     clamp(current-1, 1, last),
			Disabled: current <= 1,
		},
		Links: ComputeWindow(current, page.TotalPages),
		Next: NavControl{
			Label:    "Next",
			Page:     clamp(current+1, 1, last),
			Disabled: current >= last,
		},
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
