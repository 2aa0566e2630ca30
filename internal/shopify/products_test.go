package shopify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/DougPlumley/PS-Shopify/pkg/errors"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		store:      "teststore",
		username:   "apikey",
		password:   "secret",
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
}

func makeProducts(count int, prefix string) []Product {
	products := make([]Product, count)
	for i := range products {
		products[i] = Product{
			ID:    int64(i + 1),
			Title: fmt.Sprintf("%s %d", prefix, i+1),
			Variants: []Variant{
				{SKU: fmt.Sprintf("%s-%d", prefix, i+1)},
			},
		}
	}
	return products
}

func writeProducts(t *testing.T, w http.ResponseWriter, products []Product) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]Product{"products": products}); err != nil {
		t.Fatalf("encode products: %v", err)
	}
}

type pageRequest struct {
	limit string
	page  string
}

func TestListProductsUnlimited(t *testing.T) {
	var requests []pageRequest
	full := makeProducts(250, "BULK")
	tail := makeProducts(3, "TAIL")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, pageRequest{limit: q.Get("limit"), page: q.Get("page")})
		switch q.Get("page") {
		case "1":
			writeProducts(t, w, full)
		case "2":
			writeProducts(t, w, tail)
		default:
			t.Errorf("unexpected page request: %s", q.Get("page"))
			writeProducts(t, w, nil)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{Limit: AllProducts})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	if len(products) != 253 {
		t.Errorf("Expected 253 products, got %d", len(products))
	}
	if len(requests) != 2 {
		t.Fatalf("Expected 2 page requests, got %d", len(requests))
	}
	for i, req := range requests {
		if req.limit != "250" {
			t.Errorf("page %d: expected limit 250, got %s", i+1, req.limit)
		}
		if want := fmt.Sprintf("%d", i+1); req.page != want {
			t.Errorf("request %d: expected page %s, got %s", i, want, req.page)
		}
	}
	// Page order then item order within page
	if products[0].Title != "BULK 1" || products[250].Title != "TAIL 1" {
		t.Errorf("ordering broken: first=%q, 251st=%q", products[0].Title, products[250].Title)
	}
}

func TestListProductsFiniteLimit(t *testing.T) {
	var requests []pageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, pageRequest{limit: q.Get("limit"), page: q.Get("page")})
		writeProducts(t, w, makeProducts(5, "FIN"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	if len(products) != 5 {
		t.Errorf("Expected 5 products, got %d", len(products))
	}
	if len(requests) != 1 {
		t.Errorf("Expected 1 page request, got %d", len(requests))
	}
	if requests[0].limit != "5" || requests[0].page != "1" {
		t.Errorf("Expected limit=5 page=1, got limit=%s page=%s", requests[0].limit, requests[0].page)
	}
}

func TestListProductsSmallCatalog(t *testing.T) {
	// Catalog smaller than the requested size: one short page ends the loop.
	var pages int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		writeProducts(t, w, makeProducts(3, "SMALL"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	if len(products) != 3 {
		t.Errorf("Expected the full 3-product catalog, got %d", len(products))
	}
	if pages != 1 {
		t.Errorf("Expected 1 page request, got %d", pages)
	}
}

func TestListProductsOvershootNotTruncated(t *testing.T) {
	// A remote that overfills the page: the result keeps everything.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProducts(t, w, makeProducts(4, "OVER"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 4 {
		t.Errorf("Expected overshoot preserved (4 products), got %d", len(products))
	}
}

func TestListProductsSKUFilter(t *testing.T) {
	catalog := []Product{
		{Title: "First", Variants: []Variant{{SKU: "ABC-100"}}},
		{Title: "Second", Variants: []Variant{{SKU: "XYZ-200"}}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProducts(t, w, catalog)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{SKUFilter: "100"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}
	if products[0].Variants[0].SKU != "ABC-100" {
		t.Errorf("Expected ABC-100, got %s", products[0].Variants[0].SKU)
	}
}

func TestListProductsSKUFilterCaseInsensitive(t *testing.T) {
	catalog := []Product{
		{Title: "Widget", Variants: []Variant{{SKU: "abc-100"}}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProducts(t, w, catalog)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{SKUFilter: "ABC"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("Expected case-insensitive match, got %d products", len(products))
	}
}

func TestListProductsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	products, err := client.ListProducts(context.Background(), ListOptions{})
	var unauthorized *apperrors.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if products != nil {
		t.Errorf("Expected no partial result, got %d products", len(products))
	}
}

func TestListProductsSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "apikey" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeProducts(t, w, nil)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.ListProducts(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
}

func TestCreateProductDuplicateTitle(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
			w.WriteHeader(http.StatusCreated)
			return
		}
		writeProducts(t, w, []Product{{Title: "Widget"}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateProduct(context.Background(), CreateProductParams{Title: "Widget"})

	var duplicate *apperrors.ErrDuplicateProduct
	if !errors.As(err, &duplicate) {
		t.Fatalf("Expected ErrDuplicateProduct, got %v", err)
	}
	if posts != 0 {
		t.Errorf("Expected no POST request, got %d", posts)
	}
}

func TestCreateProductDuplicateTitleCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProducts(t, w, []Product{{Title: "  widget "}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateProduct(context.Background(), CreateProductParams{Title: "Widget"})

	var duplicate *apperrors.ErrDuplicateProduct
	if !errors.As(err, &duplicate) {
		t.Fatalf("Expected ErrDuplicateProduct, got %v", err)
	}
}

func capturePostedProduct(t *testing.T, params CreateProductParams) map[string]any {
	t.Helper()
	var posted map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeProducts(t, w, nil)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
			t.Errorf("decode posted payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"product":{"id":42,"title":"created"}}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	created, err := client.CreateProduct(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("Expected created product ID 42, got %d", created.ID)
	}

	product, ok := posted["product"].(map[string]any)
	if !ok {
		t.Fatalf("posted payload missing product envelope: %v", posted)
	}
	return product
}

func TestCreateProductTitleOnlyPayload(t *testing.T) {
	product := capturePostedProduct(t, CreateProductParams{Title: "Widget"})

	if product["title"] != "Widget" {
		t.Errorf("Expected title Widget, got %v", product["title"])
	}
	if product["published"] != false {
		t.Errorf("Expected published to default to false, got %v", product["published"])
	}
	variants, ok := product["variants"].([]any)
	if !ok || len(variants) != 1 {
		t.Fatalf("Expected one variant, got %v", product["variants"])
	}
	variant := variants[0].(map[string]any)
	if variant["inventory_quantity"] != float64(0) {
		t.Errorf("Expected inventory_quantity to default to 0, got %v", variant["inventory_quantity"])
	}
	if len(variant) != 1 {
		t.Errorf("Expected only the quantity default in the variant, got %v", variant)
	}
	// Nothing the caller never supplied may appear.
	for _, field := range []string{"vendor", "product_type", "body_html", "images"} {
		if _, present := product[field]; present {
			t.Errorf("Field %s should be absent from a title-only payload", field)
		}
	}
}

func TestCreateProductFullPayload(t *testing.T) {
	weight := 2.5
	published := true
	quantity := 7
	product := capturePostedProduct(t, CreateProductParams{
		Title:               "Gizmo",
		Vendor:              "Acme",
		ProductType:         "Gadget",
		BodyHTML:            "<p>Spins.</p>",
		Weight:              &weight,
		Published:           &published,
		InventoryQuantity:   &quantity,
		InventoryManagement: "shopify",
		InventoryPolicy:     "Deny",
		SKU:                 "GZ-1",
		Images:              [][]byte{[]byte("pixels")},
	})

	if product["vendor"] != "Acme" || product["product_type"] != "Gadget" {
		t.Errorf("vendor/product_type not merged: %v", product)
	}
	if product["published"] != true {
		t.Errorf("Expected published true, got %v", product["published"])
	}

	variant := product["variants"].([]any)[0].(map[string]any)
	if variant["weight"] != 2.5 {
		t.Errorf("Expected weight 2.5, got %v", variant["weight"])
	}
	if variant["weight_unit"] != "lb" {
		t.Errorf("Expected fixed unit lb, got %v", variant["weight_unit"])
	}
	if variant["inventory_quantity"] != float64(7) {
		t.Errorf("Expected inventory_quantity 7, got %v", variant["inventory_quantity"])
	}
	if variant["inventory_policy"] != "deny" {
		t.Errorf("Expected normalized policy deny, got %v", variant["inventory_policy"])
	}
	if variant["sku"] != "GZ-1" {
		t.Errorf("Expected sku GZ-1, got %v", variant["sku"])
	}

	images := product["images"].([]any)
	attachment := images[0].(map[string]any)["attachment"]
	if attachment != base64.StdEncoding.EncodeToString([]byte("pixels")) {
		t.Errorf("Expected base64 attachment, got %v", attachment)
	}
}

func TestCreateProductInvalidPolicy(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeProducts(t, w, nil)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateProduct(context.Background(), CreateProductParams{
		Title:           "Widget",
		InventoryPolicy: "Maybe",
	})

	var validation *apperrors.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
	if validation.Fields["inventory_policy"] == "" {
		t.Errorf("Expected inventory_policy named in Fields, got %v", validation.Fields)
	}
	if hits != 0 {
		t.Errorf("Expected no network call, got %d", hits)
	}
}

func TestCreateProductMissingTitle(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	_, err := client.CreateProduct(context.Background(), CreateProductParams{Title: "   "})

	var validation *apperrors.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestCreateProductRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeProducts(t, w, nil)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"errors":{"title":["has already been taken"]}}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateProduct(context.Background(), CreateProductParams{Title: "Widget"})

	var remote *apperrors.ErrRemote
	if !errors.As(err, &remote) {
		t.Fatalf("Expected ErrRemote, got %v", err)
	}
	if remote.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", remote.StatusCode)
	}
}

func TestNormalizeStore(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"acme", "acme"},
		{"  acme  ", "acme"},
		{"https://acme.myshopify.com/", "acme"},
		{"http://acme.myshopify.com", "acme"},
		{"acme.myshopify.com", "acme"},
	}
	for _, tc := range cases {
		if got := normalizeStore(tc.in); got != tc.want {
			t.Errorf("normalizeStore(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
