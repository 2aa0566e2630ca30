package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DougPlumley/PS-Shopify/internal/config"
	"github.com/DougPlumley/PS-Shopify/internal/shopify"
)

func main() {
	skuFilter := flag.String("sku", "", "keep only products whose variant SKUs contain this substring")
	limit := flag.Int("limit", 0, "number of products to fetch (0 fetches the whole catalog)")
	asJSON := flag.Bool("json", false, "print raw JSON instead of a table")
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

	// Create Shopify client
	client := shopify.NewClient(cfg.Shopify, logger)

	products, err := client.ListProducts(context.Background(), shopify.ListOptions{
		SKUFilter: *skuFilter,
		Limit:     *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list products: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(products); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode products: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, p := range products {
		fmt.Printf("%s\n", p.Title)
		if p.Vendor != "" {
			fmt.Printf("  Vendor: %s\n", p.Vendor)
		}
		for _, v := range p.Variants {
			if v.SKU != "" {
				fmt.Printf("  SKU: %s (qty %d)\n", v.SKU, v.InventoryQuantity)
			} else {
				fmt.Printf("  SKU: (not set) (qty %d)\n", v.InventoryQuantity)
			}
		}
	}
	fmt.Printf("\n%d product(s)\n", len(products))
}
