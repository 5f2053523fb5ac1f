// Package storefront shapes catalog data into the localized views served to
// visitors and the dashboard.
package storefront

import (
	"net/url"
	"strings"
	"time"

	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/i18n"
)

// Page wraps every view with what a localized page needs besides its data.
type Page struct {
	Locale        i18n.Locale `json:"locale"`
	Dir           string      `json:"dir"`
	AlternatePath string      `json:"alternate_path"`
	Data          any         `json:"data"`
}

func NewPage(l i18n.Locale, path string, data any) Page {
	return Page{
		Locale:        l,
		Dir:           l.Dir(),
		AlternatePath: i18n.SwitchPath(path, l.Alternate()),
		Data:          data,
	}
}

type CompanyView struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ButtonText  string    `json:"button_text"`
	VideoURL    string    `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductView struct {
	ID          int64        `json:"id"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Images      []string     `json:"images"`
	Company     *CompanyView `json:"company,omitempty"`
	WhatsAppURL string       `json:"whatsapp_url"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CompanyPage struct {
	Company  CompanyView   `json:"company"`
	Products []ProductView `json:"products"`
	Search   string        `json:"search,omitempty"`
}

func Company(c *companies.Company, l i18n.Locale) CompanyView {
	return CompanyView{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name.Get(l),
		Description: c.Description.Get(l),
		ButtonText:  c.ButtonText.Get(l),
		VideoURL:    c.VideoURL,
		CreatedAt:   c.CreatedAt,
	}
}

func Companies(list []*companies.Company, l i18n.Locale) []CompanyView {
	out := make([]CompanyView, 0, len(list))
	for _, c := range list {
		out = append(out, Company(c, l))
	}
	return out
}

func Product(p *products.Product, l i18n.Locale) ProductView {
	v := ProductView{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name.Get(l),
		Description: p.Description.Get(l),
		Price:       p.Price,
		Images:      p.ImageURLs(),
		CreatedAt:   p.CreatedAt,
	}
	if p.Company != nil {
		cv := Company(p.Company, l)
		v.Company = &cv
	}
	v.WhatsAppURL = WhatsAppURL(v.Name)
	return v
}

func Products(list []*products.Product, l i18n.Locale) []ProductView {
	out := make([]ProductView, 0, len(list))
	for _, p := range list {
		out = append(out, Product(p, l))
	}
	return out
}

// WhatsAppURL opens a chat prefilled with an inquiry about productName.
func WhatsAppURL(productName string) string {
	text := "Hi! I'm interested in " + productName
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
