package domain

import (
	"net/url"
	"sort"
	"strings"
)

// FilterKey names one filter dimension.
type FilterKey string

// Filter keys used by the deals and destinations pages.
const (
	FilterCategory    FilterKey = "category"
	FilterDestination FilterKey = "destination"
	FilterPriceRange  FilterKey = "priceRange"
	FilterMonth       FilterKey = "month"
	FilterSort        FilterKey = "sort"
	FilterRegion      FilterKey = "region"
)

// ValueAll is the sentinel meaning "no filtering on this key".
const ValueAll = "all"

// Sort orders for deals.
const (
	SortPopular   = "popular"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortDiscount  = "discount"
	SortDuration  = "duration"
)

// Destination regions.
const (
	RegionGlobal   = "global"
	RegionEurope   = "europe"
	RegionAsia     = "asia"
	RegionAmericas = "americas"
)

var regionTitles = map[string]string{
	RegionGlobal:   "Worldwide",
	RegionEurope:   "Europe",
	RegionAsia:     "Asia",
	RegionAmericas: "Americas",
}

// RegionTitle returns the display title of a destination region.
// Unknown regions read as worldwide.
func RegionTitle(region string) string {
	if title, ok := regionTitles[region]; ok {
		return title
	}
	return regionTitles[RegionGlobal]
}

// FilterSpec describes a single filter: its URL parameter, its default and the
// values it accepts. ValueAll is accepted only when it is the default.
type FilterSpec struct {
	Key     FilterKey
	Param   string
	Default string
	Allowed []string
}

// accepts reports whether value is a recognized value for this filter.
func (s FilterSpec) accepts(value string) bool {
	if value == s.Default {
		return true
	}
	for _, v := range s.Allowed {
		if v == value {
			return true
		}
	}
	return false
}

// FilterSchema is the ordered set of filters a page understands.
type FilterSchema struct {
	Name  string
	Specs []FilterSpec
}

// Spec returns the spec for key.
func (s *FilterSchema) Spec(key FilterKey) (FilterSpec, bool) {
	for _, spec := range s.Specs {
		if spec.Key == key {
			return spec, true
		}
	}
	return FilterSpec{}, false
}

// SpecByParam returns the spec bound to a URL parameter name.
func (s *FilterSchema) SpecByParam(param string) (FilterSpec, bool) {
	for _, spec := range s.Specs {
		if spec.Param == param {
			return spec, true
		}
	}
	return FilterSpec{}, false
}

// Defaults returns a FilterSet with every key at its default.
func (s *FilterSchema) Defaults() FilterSet {
	values := make(map[FilterKey]string, len(s.Specs))
	for _, spec := range s.Specs {
		values[spec.Key] = spec.Default
	}
	return FilterSet{schema: s, values: values}
}

// Params returns the URL parameter names in schema order.
func (s *FilterSchema) Params() []string {
	params := make([]string, 0, len(s.Specs))
	for _, spec := range s.Specs {
		params = append(params, spec.Param)
	}
	return params
}

// DealsSchema is the filter schema of the deals page.
var DealsSchema = &FilterSchema{
	Name: "deals",
	Specs: []FilterSpec{
		{
			Key:     FilterCategory,
			Param:   "dealType",
			Default: ValueAll,
			Allowed: []string{"hotel", "flight", "package", "last-minute"},
		},
		{
			Key:     FilterDestination,
			Param:   "destination",
			Default: ValueAll,
			Allowed: []string{"paris", "bali", "new-york", "rome", "tokyo", "sydney"},
		},
		{
			Key:     FilterPriceRange,
			Param:   "priceRange",
			Default: ValueAll,
			Allowed: []string{"under-1000", "1000-2000", "2000-3000", "over-3000"},
		},
		{
			Key:     FilterMonth,
			Param:   "travelMonth",
			Default: ValueAll,
			Allowed: []string{
				"january", "february", "march", "april", "may", "june",
				"july", "august", "september", "october", "november", "december",
			},
		},
		{
			Key:     FilterSort,
			Param:   "sortBy",
			Default: SortPopular,
			Allowed: []string{SortPriceAsc, SortPriceDesc, SortDiscount, SortDuration},
		},
	},
}

// DestinationsSchema is the filter schema of the destinations page.
var DestinationsSchema = &FilterSchema{
	Name: "destinations",
	Specs: []FilterSpec{
		{
			Key:     FilterRegion,
			Param:   "region",
			Default: RegionGlobal,
			Allowed: []string{RegionEurope, RegionAsia, RegionAmericas},
		},
	},
}

// FilterSet maps every key of a schema to exactly one value.
// The zero value is not usable; build one with ParseFilters or Defaults.
type FilterSet struct {
	schema *FilterSchema
	values map[FilterKey]string
}

// Schema returns the schema the set belongs to.
func (f FilterSet) Schema() *FilterSchema {
	return f.schema
}

// Get returns the value for key, or "" when the key is not part of the schema.
func (f FilterSet) Get(key FilterKey) string {
	return f.values[key]
}

// IsAll reports whether key is at the "all" sentinel.
func (f FilterSet) IsAll(key FilterKey) bool {
	return f.values[key] == ValueAll
}

// With returns a copy of f with key set to value.
// An unrecognized value resets the key to its default.
func (f FilterSet) With(key FilterKey, value string) FilterSet {
	spec, ok := f.schema.Spec(key)
	if !ok {
		return f
	}
	out := f.clone()
	if spec.accepts(value) {
		out.values[key] = value
	} else {
		out.values[key] = spec.Default
	}
	return out
}

// Values returns the set as URL parameters (one value per parameter).
func (f FilterSet) Values() url.Values {
	v := make(url.Values, len(f.schema.Specs))
	for _, spec := range f.schema.Specs {
		v.Set(spec.Param, f.values[spec.Key])
	}
	return v
}

// Map returns the set keyed by URL parameter name.
func (f FilterSet) Map() map[string]string {
	m := make(map[string]string, len(f.schema.Specs))
	for _, spec := range f.schema.Specs {
		m[spec.Param] = f.values[spec.Key]
	}
	return m
}

// Encode serializes the set into a query string.
// Every parameter is always present and parameters are sorted by name, so the
// output is deterministic.
func (f FilterSet) Encode() string {
	return f.Values().Encode()
}

// String implements fmt.Stringer.
func (f FilterSet) String() string {
	return f.Encode()
}

// Equal reports whether both sets have the same schema and values.
func (f FilterSet) Equal(other FilterSet) bool {
	if f.schema != other.schema || len(f.values) != len(other.values) {
		return false
	}
	for k, v := range f.values {
		if other.values[k] != v {
			return false
		}
	}
	return true
}

func (f FilterSet) clone() FilterSet {
	values := make(map[FilterKey]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	return FilterSet{schema: f.schema, values: values}
}

// ParseFilters reads the recognized parameters of query. Missing or invalid
// values resolve to their defaults, so the result is always complete and valid.
func ParseFilters(schema *FilterSchema, query string) FilterSet {
	set, _ := ParseFiltersStrict(schema, query)
	return set
}

// ParseFiltersStrict behaves like ParseFilters and also reports which
// parameters were corrected. The returned FilterSet is usable either way.
func ParseFiltersStrict(schema *FilterSchema, query string) (FilterSet, error) {
	query = strings.TrimPrefix(query, "?")

	// ParseQuery keeps every pair it could decode even when it returns an error.
	values, parseErr := url.ParseQuery(query)

	set := schema.Defaults()
	verr := &ValidationError{}
	if parseErr != nil {
		verr.Add("query", parseErr.Error())
	}

	for _, spec := range schema.Specs {
		raw, present := values[spec.Param]
		if !present || len(raw) == 0 {
			continue
		}
		value := raw[0]
		if !spec.accepts(value) {
			verr.Add(spec.Param, "unrecognized value "+quote(value)+", using "+quote(spec.Default))
			continue
		}
		set.values[spec.Key] = value
	}

	if verr.HasErrors() {
		return set, verr
	}
	return set, nil
}

// FiltersFromMap builds a set from parameter/value pairs, with the same
// fallback rules as ParseFilters. Unknown parameters are ignored.
func FiltersFromMap(schema *FilterSchema, params map[string]string) FilterSet {
	v := make(url.Values, len(params))
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, params[k])
	}
	return ParseFilters(schema, v.Encode())
}

func quote(s string) string {
	return `"` + s + `"`
}
