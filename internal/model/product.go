package model

import (
	"regexp"
	"time"
)

// Product is a catalog item.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	Status          Status    `json:"status"`
	Price           float64   `json:"price"`
	SalePrice       *float64  `json:"sale_price,omitempty"`
	Currency        string    `json:"currency"`
	SKU             string    `json:"sku,omitempty"`
	Stock           int       `json:"stock"`
	CategoryIDs     []string  `json:"category_ids"`
	Images          []string  `json:"images"` // media ids
	Featured        bool      `json:"featured"`
	AuthorID        string    `json:"author_id"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// Constraints
const (
	DefaultCurrency     = "USD"
	MaxProductImages    = 20
	MaxSKULength        = 64
	MaxDescriptionBytes = 100_000
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Slug        *string  `json:"slug,omitempty"`
	CustomSlug  *string  `json:"custom_slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Stock       int      `json:"stock,omitempty"`
	CategoryIDs []string `json:"category_ids,omitempty"`
	Images      []string `json:"images,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateProductRequest) Validate() []FieldError {
	var errors []FieldError
	errors = append(errors, validateTitle(r.Title, "title", true)...)
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validatePricing(r.Price, r.SalePrice)...)
	if r.Currency != "" && !currencyPattern.MatchString(r.Currency) {
		errors = append(errors, FieldError{Field: "currency", Message: "currency must be a 3-letter ISO 4217 code"})
	}
	if len(r.SKU) > MaxSKULength {
		errors = append(errors, FieldError{Field: "sku", Message: "sku must be 64 characters or less"})
	}
	if r.Stock < 0 {
		errors = append(errors, FieldError{Field: "stock", Message: "stock must be 0 or greater"})
	}
	if len(r.Description) > MaxDescriptionBytes {
		errors = append(errors, FieldError{Field: "description", Message: "description is too long"})
	}
	errors = append(errors, validateRefs("category_ids", TableCategory, r.CategoryIDs)...)
	errors = append(errors, validateImages(r.Images)...)
	return errors
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Title       *string   `json:"title,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	CustomSlug  *string   `json:"custom_slug,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
	SKU         *string   `json:"sku,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	CategoryIDs *[]string `json:"category_ids,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateProductRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Title != nil {
		errors = append(errors, validateTitle(*r.Title, "title", false)...)
	}
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	if r.Price != nil {
		errors = append(errors, validatePricing(*r.Price, r.SalePrice)...)
	} else if r.SalePrice != nil && *r.SalePrice < 0 {
		errors = append(errors, FieldError{Field: "sale_price", Message: "sale_price must be 0 or greater"})
	}
	if r.Currency != nil && !currencyPattern.MatchString(*r.Currency) {
		errors = append(errors, FieldError{Field: "currency", Message: "currency must be a 3-letter ISO 4217 code"})
	}
	if r.SKU != nil && len(*r.SKU) > MaxSKULength {
		errors = append(errors, FieldError{Field: "sku", Message: "sku must be 64 characters or less"})
	}
	if r.Stock != nil && *r.Stock < 0 {
		errors = append(errors, FieldError{Field: "stock", Message: "stock must be 0 or greater"})
	}
	if r.Description != nil && len(*r.Description) > MaxDescriptionBytes {
		errors = append(errors, FieldError{Field: "description", Message: "description is too long"})
	}
	if r.CategoryIDs != nil {
		errors = append(errors, validateRefs("category_ids", TableCategory, *r.CategoryIDs)...)
	}
	if r.Images != nil {
		errors = append(errors, validateImages(*r.Images)...)
	}
	return errors
}

func validatePricing(price float64, salePrice *float64) []FieldError {
	var errors []FieldError
	if price < 0 {
		errors = append(errors, FieldError{Field: "price", Message: "price must be 0 or greater"})
	}
	if salePrice != nil {
		if *salePrice < 0 {
			errors = append(errors, FieldError{Field: "sale_price", Message: "sale_price must be 0 or greater"})
		} else if *salePrice > price {
			errors = append(errors, FieldError{Field: "sale_price", Message: "sale_price cannot exceed price"})
		}
	}
	return errors
}

func validateImages(images []string) []FieldError {
	if len(images) > MaxProductImages {
		return []FieldError{{Field: "images", Message: "at most 20 images are allowed"}}
	}
	return validateRefs("images", TableMedia, images)
}
