package cart

import (
	"net/url"
	"strings"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
)

// PlaceholderImage is served when a product image URL is missing or unusable.
const PlaceholderImage = "/images/placeholder.png"

// NormalizeImageURL returns the image URL when it is an absolute http(s) URL
// and the placeholder otherwise.
func NormalizeImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PlaceholderImage
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return PlaceholderImage
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return PlaceholderImage
	}
	return trimmed
}

// lineSnapshot captures the display fields for a cart line after variant
// resolution. A variant id that no longer exists on the product falls back to
// the product-level fields.
type lineSnapshot struct {
	Name        string
	Image       string
	Stock       int
	VariantName string
}

func snapshotLine(product *models.Product, item *models.CartItem) lineSnapshot {
	snap := lineSnapshot{
		Name:  product.Name,
		Image: NormalizeImageURL(product.Image),
		Stock: product.Stock,
	}
	if item.VariantID == nil {
		return snap
	}
	variant := product.VariantByID(*item.VariantID)
	if variant == nil {
		return snap
	}
	snap.VariantName = variant.Name
	snap.Stock = variant.Stock
	if img := strings.TrimSpace(variant.Image); img != "" {
		snap.Image = NormalizeImageURL(img)
	}
	return snap
}
