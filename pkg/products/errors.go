package products

import "errors"

var (
	// ErrCatalogUnavailable indicates both the backend and the bundled
	// fallback produced no catalog
	ErrCatalogUnavailable = errors.New("products.catalog_unavailable")

	// ErrInvalidCatalogFile indicates the bundled catalog file could not be
	// parsed
	ErrInvalidCatalogFile = errors.New("products.invalid_catalog_file")
)
