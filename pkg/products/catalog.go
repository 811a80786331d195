package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// CatalogAPI is the slice of the backend contract the catalog uses.
type CatalogAPI interface {
	Products(ctx context.Context) ([]apiclient.Product, error)
}

// Catalog serves the product listing, falling back to a bundled source when
// the backend is unreachable.
type Catalog struct {
	api      CatalogAPI
	fallback []apiclient.Product
	log      *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithFallback sets the products served when the backend is unreachable.
func WithFallback(products []apiclient.Product) Option {
	return func(c *Catalog) {
		c.fallback = products
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCatalog builds a catalog backed by the given API.
func NewCatalog(api CatalogAPI, opts ...Option) *Catalog {
	c := &Catalog{
		api: api,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the normalized catalog. A backend failure falls through to the
// bundled fallback; only when both yield nothing does List return an error.
func (c *Catalog) List(ctx context.Context) ([]apiclient.Product, error) {
	fetched, err := c.api.Products(ctx)
	if err == nil {
		return Normalize(fetched), nil
	}

	c.log.LogAttrs(ctx, slog.LevelWarn, "product fetch failed, serving bundled catalog",
		logger.Component("products"), logger.Error(err))

	if len(c.fallback) == 0 {
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}
	return Normalize(c.fallback), nil
}

// Normalize drops inactive products and moves featured ones to the front.
// The sort is stable, so backend ordering survives within each group.
func Normalize(products []apiclient.Product) []apiclient.Product {
	out := make([]apiclient.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsFeatured && !out[j].IsFeatured
	})
	return out
}

type catalogFile struct {
	Products []yamlProduct `yaml:"products"`
}

type yamlProduct struct {
	ID           int64    `yaml:"id"`
	Name         string   `yaml:"name"`
	Price        float64  `yaml:"price"`
	DurationDays int      `yaml:"duration_days"`
	Description  string   `yaml:"description"`
	Features     []string `yaml:"features"`
	IsFeatured   bool     `yaml:"is_featured"`
	IsActive     bool     `yaml:"is_active"`
	ImageURL     string   `yaml:"image_url"`
}

// LoadCatalogFile parses a bundled YAML catalog, typically shipped with the
// build for offline rendering.
func LoadCatalogFile(r io.Reader) ([]apiclient.Product, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalogFile, err)
	}

	out := make([]apiclient.Product, 0, len(file.Products))
	for _, p := range file.Products {
		out = append(out, apiclient.Product{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			DurationDays: p.DurationDays,
			Description:  p.Description,
			Features:     p.Features,
			IsFeatured:   p.IsFeatured,
			IsActive:     p.IsActive,
			ImageURL:     p.ImageURL,
		})
	}
	return out, nil
}
