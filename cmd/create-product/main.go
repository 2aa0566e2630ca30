package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DougPlumley/PS-Shopify/internal/config"
	"github.com/DougPlumley/PS-Shopify/internal/shopify"
)

// stringList collects a repeatable flag value.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	title := flag.String("title", "", "product title (required)")
	vendor := flag.String("vendor", "", "product vendor")
	productType := flag.String("type", "", "product type")
	body := flag.String("body", "", "product description HTML")
	weight := flag.Float64("weight", 0, "variant weight in pounds")
	published := flag.Bool("published", false, "publish the product immediately")
	quantity := flag.Int("quantity", 0, "variant inventory quantity")
	management := flag.String("management", "", "inventory management mode (e.g. shopify)")
	policy := flag.String("policy", "", "inventory policy: deny or continue")
	sku := flag.String("sku", "", "variant SKU")
	var imagePaths stringList
	flag.Var(&imagePaths, "image", "path to a product image (repeatable)")
	flag.Parse()

	_ = godotenv.Load() // loads .env if present

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	params := shopify.CreateProductParams{
		Title:               *title,
		Vendor:              *vendor,
		ProductType:         *productType,
		BodyHTML:            *body,
		InventoryManagement: *management,
		InventoryPolicy:     *policy,
		SKU:                 *sku,
	}

	// Only flags the operator actually passed become payload attributes.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "weight":
			params.Weight = weight
		case "published":
			params.Published = published
		case "quantity":
			params.InventoryQuantity = quantity
		}
	})

	for _, path := range imagePaths {
		blob, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read image %s: %v\n", path, err)
			os.Exit(1)
		}
		params.Images = append(params.Images, blob)
	}

	client := shopify.NewClient(cfg.Shopify, logger)

	created, err := client.CreateProduct(context.Background(), params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create product: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(created); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode response: %v\n", err)
		os.Exit(1)
	}
}
