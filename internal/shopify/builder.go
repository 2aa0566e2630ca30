package shopify

import (
	"encoding/base64"
	"strings"
)

// productBuilder accumulates a field-name-to-value mapping and serializes
// it at the end, so attributes the caller never supplied are simply absent
// from the payload rather than null placeholders.
type productBuilder struct {
	product map[string]any
	variant map[string]any
	images  []map[string]any
}

func newProductBuilder(title string) *productBuilder {
	return &productBuilder{
		product: map[string]any{"title": title},
		variant: map[string]any{},
	}
}

func (b *productBuilder) set(field string, value any) *productBuilder {
	b.product[field] = value
	return b
}

func (b *productBuilder) setVariant(field string, value any) *productBuilder {
	b.variant[field] = value
	return b
}

func (b *productBuilder) addImage(blob []byte) *productBuilder {
	b.images = append(b.images, map[string]any{
		"attachment": base64.StdEncoding.EncodeToString(blob),
	})
	return b
}

// build wraps the accumulated fields in the {"product": ...} envelope the
// Admin API expects.
func (b *productBuilder) build() map[string]any {
	if len(b.variant) > 0 {
		b.product["variants"] = []map[string]any{b.variant}
	}
	if len(b.images) > 0 {
		b.product["images"] = b.images
	}
	return map[string]any{"product": b.product}
}

// buildProductPayload maps CreateProductParams onto the wire payload.
// Only supplied attributes are merged in; the publication flag defaults to
// false and the inventory quantity to 0 when absent.
func buildProductPayload(params CreateProductParams) map[string]any {
	b := newProductBuilder(strings.TrimSpace(params.Title))

	if params.Vendor != "" {
		b.set("vendor", params.Vendor)
	}
	if params.ProductType != "" {
		b.set("product_type", params.ProductType)
	}
	if params.BodyHTML != "" {
		b.set("body_html", params.BodyHTML)
	}
	if params.Published != nil {
		b.set("published", *params.Published)
	} else {
		b.set("published", false)
	}

	if params.Weight != nil {
		b.setVariant("weight", *params.Weight)
		b.setVariant("weight_unit", "lb")
	}
	if params.InventoryQuantity != nil {
		b.setVariant("inventory_quantity", *params.InventoryQuantity)
	} else {
		b.setVariant("inventory_quantity", 0)
	}
	if params.InventoryManagement != "" {
		b.setVariant("inventory_management", params.InventoryManagement)
	}
	if params.InventoryPolicy != "" {
		b.setVariant("inventory_policy", strings.ToLower(params.InventoryPolicy))
	}
	if params.SKU != "" {
		b.setVariant("sku", params.SKU)
	}

	for _, img := range params.Images {
		b.addImage(img)
	}

	return b.build()
}
