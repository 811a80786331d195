// Package products assembles the storefront catalog.
//
// The catalog comes from the backend when it is reachable and from a bundled
// YAML file otherwise, so the storefront always has something to render.
// Either way the listing is normalized the same: inactive products are
// dropped and featured ones sort first, with the original order preserved
// within each group.
package products
