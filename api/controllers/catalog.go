package controllers

import (
	"net/http"
	"strings"

	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/api/validators"
	"github.com/vitalixplus/storefront/internal/catalog"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/pagination"
)

// CatalogList serves the filtered, sorted and paginated product listing.
// Query: q, id, category, min_price, max_price, sort, page, page_size.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, page, err := parseCatalogQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseCatalogQuery(r *http.Request) (catalog.FilterState, pagination.Params, error) {
	q := r.URL.Query()
	sortKey, err := catalog.ParseSortKey(q.Get("sort"))
	if err != nil {
		return catalog.FilterState{}, pagination.Params{}, err
	}
	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return catalog.FilterState{}, pagination.Params{}, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return catalog.FilterState{}, pagination.Params{}, err
	}
	pageNum, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return catalog.FilterState{}, pagination.Params{}, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", 0, 0, pagination.MaxSize)
	if err != nil {
		return catalog.FilterState{}, pagination.Params{}, err
	}
	filter := catalog.FilterState{
		SearchText: validators.SanitizeString(q.Get("q"), 120),
		IDQuery:    strings.TrimSpace(q.Get("id")),
		Category:   validators.SanitizeString(q.Get("category"), 80),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		SortKey:    sortKey,
	}
	return filter, pagination.Params{Page: pageNum, Size: size}, nil
}

func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CatalogImages never fails on a missing image; the placeholder is returned instead.
func CatalogImages(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		urls, err := svc.Images(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product_id": id, "images": urls})
	}
}

func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}
