package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DougPlumley/PS-Shopify/internal/shopify"
	apperrors "github.com/DougPlumley/PS-Shopify/pkg/errors"
)

// HandleListProducts handles GET /v1/products?sku=&limit=
func HandleListProducts(client *shopify.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := shopify.ListOptions{SKUFilter: c.Query("sku")}
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			opts.Limit = n
		}

		products, err := client.ListProducts(c.Request.Context(), opts)
		if err != nil {
			logger.Error("Product listing failed", zap.Error(err))
			respondShopifyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// createProductRequest is the POST /v1/products body. Pointer fields
// distinguish "not supplied" from zero; images are base64-encoded blobs.
type createProductRequest struct {
	Title               string   `json:"title"`
	Vendor              string   `json:"vendor"`
	ProductType         string   `json:"product_type"`
	BodyHTML            string   `json:"body_html"`
	Weight              *float64 `json:"weight"`
	Published           *bool    `json:"published"`
	InventoryQuantity   *int     `json:"inventory_quantity"`
	InventoryManagement string   `json:"inventory_management"`
	InventoryPolicy     string   `json:"inventory_policy"`
	SKU                 string   `json:"sku"`
	Images              []string `json:"images"`
}

// HandleCreateProduct handles POST /v1/products
func HandleCreateProduct(client *shopify.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
			return
		}

		images := make([][]byte, 0, len(req.Images))
		for i, encoded := range req.Images {
			blob, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "images[" + strconv.Itoa(i) + "] is not valid base64",
				})
				return
			}
			images = append(images, blob)
		}

		created, err := client.CreateProduct(c.Request.Context(), shopify.CreateProductParams{
			Title:               req.Title,
			Vendor:              req.Vendor,
			ProductType:         req.ProductType,
			BodyHTML:            req.BodyHTML,
			Weight:              req.Weight,
			Published:           req.Published,
			InventoryQuantity:   req.InventoryQuantity,
			InventoryManagement: req.InventoryManagement,
			InventoryPolicy:     req.InventoryPolicy,
			SKU:                 req.SKU,
			Images:              images,
		})
		if err != nil {
			logger.Error("Product creation failed", zap.String("title", req.Title), zap.Error(err))
			respondShopifyError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"product": created})
	}
}

// respondShopifyError maps client errors onto HTTP statuses: validation
// errors are the caller's fault, duplicates conflict, everything upstream
// is a bad gateway.
func respondShopifyError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ErrValidation
		duplicateErr  *apperrors.ErrDuplicateProduct
		unauthErr     *apperrors.ErrUnauthorized
		remoteErr     *apperrors.ErrRemote
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "fields": validationErr.Fields})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{"error": duplicateErr.Error()})
	case errors.As(err, &unauthErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "shopify rejected the configured credentials"})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "shopify request failed", "status": remoteErr.StatusCode})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "shopify request failed"})
	}
}
