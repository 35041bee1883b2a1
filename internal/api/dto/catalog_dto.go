package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateSparePartRequest payload. InStock defaults to true when omitted.
type CreateSparePartRequest struct {
	Name        string          `json:"name"`
	PartNumber  string          `json:"part_number"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	InStock     *bool           `json:"in_stock"`
}

// UpdateSparePartRequest payload.
type UpdateSparePartRequest struct {
	Name        *string          `json:"name"`
	PartNumber  *string          `json:"part_number"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	InStock     *bool            `json:"in_stock"`
}

// SparePartResponse represents a catalog entry.
type SparePartResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	PartNumber  string      `json:"part_number"`
	Description string      `json:"description"`
	Brand       string      `json:"brand"`
	Category    string      `json:"category"`
	Price       json.Number `json:"price"`
	InStock     bool        `json:"in_stock"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateTemplateRequest payload.
type CreateTemplateRequest struct {
	Name          string `json:"name"`
	HeaderContent string `json:"header_content"`
	FooterContent string `json:"footer_content"`
	LogoURL       string `json:"logo_url"`
	IsDefault     bool   `json:"is_default"`
}

// UpdateTemplateRequest payload.
type UpdateTemplateRequest struct {
	Name          *string `json:"name"`
	HeaderContent *string `json:"header_content"`
	FooterContent *string `json:"footer_content"`
	LogoURL       *string `json:"logo_url"`
	IsDefault     *bool   `json:"is_default"`
}

// TemplateResponse represents a proposal template.
type TemplateResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	HeaderContent string    `json:"header_content"`
	FooterContent string    `json:"footer_content"`
	LogoURL       string    `json:"logo_url"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
