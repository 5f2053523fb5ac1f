package products

import (
	"time"

	"souq/internal/domain/companies"
	"souq/internal/i18n"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description,omitempty"`
	// Price is kept as the decimal string Postgres returns so no precision is lost.
	Price     string    `json:"price"`
	Slug      string    `json:"slug"`
	CompanyID int64     `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Company *companies.Company `json:"company,omitempty"`
	Images  []*ProductImage    `json:"images"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	URL       string `json:"url"`
}

// ImageURLs returns the URLs of p's images in stored order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
