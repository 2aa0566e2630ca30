package errors

import "fmt"

// ErrUnauthorized is returned when authentication fails, either against
// this service's API surface or the Shopify Admin API.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrDuplicateProduct is returned when the store already contains a
// product with the same title. Raised before any create request is sent.
type ErrDuplicateProduct struct {
	Title string
}

func (e *ErrDuplicateProduct) Error() string {
	return fmt.Sprintf("product already exists: %s", e.Title)
}

// ErrValidation is returned when input validation fails. Fields maps
// field names to the reason each was rejected.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrRemote is returned for a non-2xx Shopify response that is not an
// authentication failure. The body is carried verbatim so the caller
// can see Shopify's own error message.
type ErrRemote struct {
	StatusCode int
	Body       string
}

func (e *ErrRemote) Error() string {
	return fmt.Sprintf("shopify API error: status %d, body: %s", e.StatusCode, e.Body)
}
