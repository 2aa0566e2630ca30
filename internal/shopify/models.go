package shopify

// Product is the Admin REST product shape (the subset this tool reads and writes).
type Product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Published   bool      `json:"published,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	Images      []Image   `json:"images,omitempty"`
}

// Variant is a purchasable SKU-level configuration of a product.
type Variant struct {
	ID                  int64   `json:"id,omitempty"`
	SKU                 string  `json:"sku,omitempty"`
	InventoryQuantity   int     `json:"inventory_quantity"`
	InventoryPolicy     string  `json:"inventory_policy,omitempty"`
	InventoryManagement string  `json:"inventory_management,omitempty"`
	Weight              float64 `json:"weight,omitempty"`
	WeightUnit          string  `json:"weight_unit,omitempty"`
}

// Image is a product image; Attachment carries base64-encoded binary on
// upload, Src is set by Shopify on read.
type Image struct {
	ID         int64  `json:"id,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	Src        string `json:"src,omitempty"`
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}
