package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalogue entry served by /products. Clients never mutate it.
type Product struct {
	ID            string            `json:"id" yaml:"id"`
	CompanyID     string            `json:"companyId" yaml:"companyId"`
	Name          string            `json:"name" yaml:"name"`
	Slug          string            `json:"slug" yaml:"slug"`
	Price         decimal.Decimal   `json:"price" yaml:"price"`
	Currency      string            `json:"currency" yaml:"currency"`
	Stock         int               `json:"stock" yaml:"stock"`
	UnitID        string            `json:"unitId" yaml:"unitId,omitempty"`
	CategoryID    string            `json:"categoryId" yaml:"categoryId"`
	ShortFeatures []string          `json:"shortFeatures" yaml:"shortFeatures,omitempty"`
	Description   string            `json:"description" yaml:"description,omitempty"`
	Specs         map[string]string `json:"specs" yaml:"specs,omitempty"`
	Images        []string          `json:"images" yaml:"images"`
	Status        string            `json:"status" yaml:"status,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" yaml:"updatedAt"`
	Company       *Company          `json:"company,omitempty" yaml:"company,omitempty"`
	Category      *Category         `json:"category,omitempty" yaml:"category,omitempty"`
	Unit          *Unit             `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Company is the seller that lists a product.
type Company struct {
	ID          string    `json:"id" yaml:"id"`
	OwnerUserID string    `json:"ownerUserId" yaml:"ownerUserId"`
	DisplayName string    `json:"displayName" yaml:"displayName"`
	Slug        string    `json:"slug" yaml:"slug"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Category groups products; ParentID is nil for top-level categories.
type Category struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Slug     string  `json:"slug" yaml:"slug"`
	ParentID *string `json:"parentId" yaml:"parentId,omitempty"`
}

// Unit is the sales unit (piece, box, kg).
type Unit struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// MainImage returns the first image or the storefront placeholder.
func (p Product) MainImage() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return PlaceholderImage
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// PageMeta is the pagination block of a product listing.
type PageMeta struct {
	Page     int `json:"page" yaml:"page"`
	PageSize int `json:"pageSize" yaml:"pageSize"`
	Total    int `json:"total" yaml:"total"`
}

// TotalPages is the number of pages needed for Total items, at least 1.
func (m PageMeta) TotalPages() int {
	if m.PageSize <= 0 || m.Total <= 0 {
		return 1
	}
	return (m.Total + m.PageSize - 1) / m.PageSize
}

// HasNext reports whether a page follows the current one.
func (m PageMeta) HasNext() bool {
	return m.Page < m.TotalPages()
}

// HasPrev reports whether a page precedes the current one.
func (m PageMeta) HasPrev() bool {
	return m.Page > 1
}
