package shopify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/DougPlumley/PS-Shopify/pkg/errors"
)

// AllProducts requests the entire catalog.
const AllProducts = 0

// maxPageSize is the largest page size the Admin API honors.
const maxPageSize = 250

// ListOptions controls a product listing.
type ListOptions struct {
	// SKUFilter, when non-empty, keeps only products where at least one
	// variant SKU contains it (case-insensitive substring match).
	SKUFilter string
	// Limit is the requested result size. AllProducts (or any value < 1)
	// fetches the whole catalog.
	Limit int
}

// ListProducts fetches the product listing page by page and returns the
// concatenation, in page order then item order within each page.
//
// With an unlimited request the page size is 250 and fetching stops once a
// page comes back with fewer than 250 entries. With a finite limit N the
// page size is N and fetching stops once the accumulated total reaches N,
// or earlier when the catalog runs out. The result is not truncated to N:
// whatever the remote returned is kept, so the caller may receive more
// than it asked for if the remote overfills a page.
//
// Any page failure aborts the whole call; no partial result is returned.
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	unlimited := opts.Limit < 1
	pageSize := maxPageSize
	if !unlimited {
		pageSize = opts.Limit
	}

	var all []Product
	for page := 1; ; page++ {
		batch, err := c.getProductsPage(ctx, pageSize, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		// A short page means the collection is exhausted.
		if len(batch) < pageSize {
			break
		}
		if !unlimited && len(all) >= opts.Limit {
			break
		}
	}

	c.logger.Debug("Product listing complete",
		zap.String("store", c.store),
		zap.Int("fetched", len(all)),
		zap.Bool("unlimited", unlimited),
	)

	if opts.SKUFilter == "" {
		return all, nil
	}
	return filterBySKU(all, opts.SKUFilter), nil
}

// filterBySKU keeps products where some variant SKU contains the filter,
// case-insensitively, preserving relative order.
func filterBySKU(products []Product, filter string) []Product {
	needle := strings.ToLower(filter)
	var filtered []Product
	for _, p := range products {
		for _, v := range p.Variants {
			if v.SKU != "" && strings.Contains(strings.ToLower(v.SKU), needle) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// CreateProductParams are the attributes for a new product. Title is
// required; everything else is optional and absent attributes never appear
// in the payload. Pointer fields distinguish "not supplied" from zero.
type CreateProductParams struct {
	Title               string
	Vendor              string
	ProductType         string
	BodyHTML            string
	Weight              *float64 // pounds; weight_unit is fixed to "lb"
	Published           *bool
	InventoryQuantity   *int
	InventoryManagement string
	InventoryPolicy     string // one of "deny", "continue" (case-insensitive)
	SKU                 string
	Images              [][]byte // raw binary, base64-encoded on upload
}

func (p CreateProductParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &apperrors.ErrValidation{
			Message: "title is required",
			Fields:  map[string]string{"title": "required"},
		}
	}
	if p.InventoryPolicy != "" {
		switch strings.ToLower(p.InventoryPolicy) {
		case "deny", "continue":
		default:
			return &apperrors.ErrValidation{
				Message: fmt.Sprintf("invalid inventory policy %q (valid values: deny, continue)", p.InventoryPolicy),
				Fields:  map[string]string{"inventory_policy": "must be one of deny, continue"},
			}
		}
	}
	return nil
}

// CreateProduct validates the parameters, checks the full catalog for a
// product with the same title, and submits a single creation request.
//
// Identity for the duplicate check is the product title, compared
// case-insensitively after trimming. The check-then-create sequence is not
// transactional: a product created by someone else between the check and
// the POST will not be caught.
func (c *Client) CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	catalog, err := c.ListProducts(ctx, ListOptions{Limit: AllProducts})
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	title := strings.TrimSpace(params.Title)
	for _, p := range catalog {
		if strings.EqualFold(strings.TrimSpace(p.Title), title) {
			return nil, &apperrors.ErrDuplicateProduct{Title: p.Title}
		}
	}

	created, err := c.postProduct(ctx, buildProductPayload(params))
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created product",
		zap.String("store", c.store),
		zap.String("title", title),
		zap.Int64("product_id", created.ID),
	)
	return created, nil
}
