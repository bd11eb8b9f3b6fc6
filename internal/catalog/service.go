package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/pagination"
	"github.com/vitalixplus/storefront/pkg/redis"
)

type inventorySource interface {
	ListInventory(ctx context.Context) ([]backend.RawProduct, error)
	ListImages(ctx context.Context, productID int64) ([]backend.RawImage, error)
}

// imageCache is satisfied by the redis client. It is optional.
type imageCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Page is one window of a filtered listing.
type Page struct {
	Items      []Product         `json:"items"`
	Pagination pagination.Result `json:"pagination"`
}

// Service exposes the read-only product catalog.
type Service interface {
	List(ctx context.Context, filter FilterState, page pagination.Params) (Page, error)
	All(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Lookup(ctx context.Context) (map[int64]Product, error)
	Categories(ctx context.Context) ([]string, error)
	Images(ctx context.Context, id int64) ([]string, error)
}

type service struct {
	source inventorySource
	cache  imageCache
	cfg    config.CatalogConfig
	logg   *logger.Logger
}

// NewService builds a catalog service. cache may be nil, in which case image lookups
// always hit the backend.
func NewService(source inventorySource, cache imageCache, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("inventory source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{source: source, cache: cache, cfg: cfg, logg: logg}, nil
}

// All fetches and normalizes the whole inventory. Nothing is cached between calls.
func (s *service) All(ctx context.Context) ([]Product, error) {
	raws, err := s.source.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(raws), nil
}

func (s *service) List(ctx context.Context, filter FilterState, page pagination.Params) (Page, error) {
	products, err := s.All(ctx)
	if err != nil {
		return Page{}, err
	}
	page = page.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	items, result := pagination.Slice(Apply(products, filter), page)
	return Page{Items: items, Pagination: result}, nil
}

func (s *service) Get(ctx context.Context, id int64) (Product, error) {
	products, err := s.All(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
}

// Lookup indexes the current inventory by product id.
func (s *service) Lookup(ctx context.Context) (map[int64]Product, error) {
	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}

// Images never fails: a missing or unreachable image list degrades to the placeholder.
func (s *service) Images(ctx context.Context, id int64) ([]string, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("images", strconv.FormatInt(id, 10))
		if urls, ok := s.cachedImages(ctx, key); ok {
			return urls, nil
		}
	}

	raws, err := s.source.ListImages(ctx, id)
	if err != nil {
		ctx = s.logg.WithField(ctx, "product_id", id)
		s.logg.Warn(ctx, "catalog.images.fallback")
		return s.placeholder(), nil
	}

	urls := make([]string, 0, len(raws))
	for _, img := range raws {
		if u := strings.TrimSpace(img.URL); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		urls = s.placeholder()
	}

	if s.cache != nil && s.cfg.ImageCacheTTL > 0 {
		if payload, err := json.Marshal(urls); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cfg.ImageCacheTTL); err != nil {
				s.logg.Error(ctx, "catalog.images.cache_set_failed", err)
			}
		}
	}
	return urls, nil
}

func (s *service) cachedImages(ctx context.Context, key string) ([]string, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Error(ctx, "catalog.images.cache_get_failed", err)
		}
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil || len(urls) == 0 {
		return nil, false
	}
	return urls, true
}

func (s *service) placeholder() []string {
	if s.cfg.PlaceholderImage == "" {
		return []string{}
	}
	return []string{s.cfg.PlaceholderImage}
}
