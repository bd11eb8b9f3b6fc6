package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

// SortKey orders a filtered listing.
type SortKey string

const (
	SortRecommended SortKey = "recommended"
	SortPriceAsc    SortKey = "price_asc"
	SortPriceDesc   SortKey = "price_desc"
)

// ParseSortKey accepts the public sort keys; empty means recommended.
func ParseSortKey(value string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(value))); key {
	case "":
		return SortRecommended, nil
	case SortRecommended, SortPriceAsc, SortPriceDesc:
		return key, nil
	}
	return "", pkgerrors.Newf(pkgerrors.CodeValidation, "unknown sort %q", value).
		WithDetails(map[string]any{"allowed": []SortKey{SortRecommended, SortPriceAsc, SortPriceDesc}})
}

// FilterState is the transient filter/sort selection of a catalog listing.
type FilterState struct {
	SearchText string
	IDQuery    string
	Category   string
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
	SortKey    SortKey
}

// IsAllCategories reports whether the category selector means "no category filter".
func IsAllCategories(category string) bool {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "", "all", "todos":
		return true
	}
	return false
}

// Matches reports whether a single product passes every filter.
func (f FilterState) Matches(p Product) bool {
	if !IsAllCategories(f.Category) && !strings.EqualFold(p.Category, strings.TrimSpace(f.Category)) {
		return false
	}
	if q := strings.TrimSpace(f.SearchText); q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
		return false
	}
	if q := strings.TrimSpace(f.IDQuery); q != "" && !strings.Contains(strconv.FormatInt(p.ID, 10), q) {
		return false
	}
	if f.MinPrice.IsPositive() && p.Price.LessThan(f.MinPrice) {
		return false
	}
	if f.MaxPrice.IsPositive() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	return true
}

// Apply filters and sorts products without mutating the input.
func Apply(products []Product, f FilterState) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	switch f.SortKey {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}
	return out
}

// Categories returns the distinct categories, sorted.
func Categories(products []Product) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
