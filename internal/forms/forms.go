// Package forms holds the add/edit dialogs of the dashboard: their fields,
// validation and the submit pipeline that runs a catalog mutation.
package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"souq/internal/catalog"
	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/i18n"
	"souq/internal/slug"
)

// CompanyForm is the add/edit company dialog. Localized fields follow the
// <field>_<locale> convention.
type CompanyForm struct {
	NameEN        string `json:"name_en" validate:"required,max=255"`
	NameAR        string `json:"name_ar" validate:"required,max=255"`
	DescriptionEN string `json:"description_en" validate:"max=5000"`
	DescriptionAR string `json:"description_ar" validate:"max=5000"`
	Slug          string `json:"slug" validate:"required,slug,max=255"`
	VideoURL      string `json:"video_url" validate:"required,url"`
	ButtonTextEN  string `json:"button_text_en" validate:"required,max=100"`
	ButtonTextAR  string `json:"button_text_ar" validate:"required,max=100"`
}

func (f *CompanyForm) values() map[string]string {
	return map[string]string{
		"name_en":        f.NameEN,
		"name_ar":        f.NameAR,
		"description_en": f.DescriptionEN,
		"description_ar": f.DescriptionAR,
		"button_text_en": f.ButtonTextEN,
		"button_text_ar": f.ButtonTextAR,
	}
}

// Prepare trims the inputs and recomputes the read-only slug from the
// English name.
func (f *CompanyForm) Prepare() {
	for _, p := range []*string{&f.NameEN, &f.NameAR, &f.DescriptionEN, &f.DescriptionAR, &f.VideoURL, &f.ButtonTextEN, &f.ButtonTextAR} {
		*p = strings.TrimSpace(*p)
	}
	f.Slug = slug.Generate(f.NameEN)
}

func (f *CompanyForm) Input() catalog.CompanyInput {
	v := f.values()
	return catalog.CompanyInput{
		Name:        i18n.FieldText(v, "name"),
		Description: nonEmpty(i18n.FieldText(v, "description")),
		ButtonText:  i18n.FieldText(v, "button_text"),
		Slug:        f.Slug,
		VideoURL:    f.VideoURL,
	}
}

// CompanyFormFrom fills the edit dialog from a stored company.
func CompanyFormFrom(c *companies.Company) *CompanyForm {
	v := map[string]string{}
	i18n.Flatten(c.Name, "name", v)
	i18n.Flatten(c.Description, "description", v)
	i18n.Flatten(c.ButtonText, "button_text", v)
	return &CompanyForm{
		NameEN:        i18n.Field(v, "name", i18n.English),
		NameAR:        i18n.Field(v, "name", i18n.Arabic),
		DescriptionEN: i18n.Field(v, "description", i18n.English),
		DescriptionAR: i18n.Field(v, "description", i18n.Arabic),
		Slug:          c.Slug,
		VideoURL:      c.VideoURL,
		ButtonTextEN:  i18n.Field(v, "button_text", i18n.English),
		ButtonTextAR:  i18n.Field(v, "button_text", i18n.Arabic),
	}
}

// ProductForm is the add/edit product dialog.
type ProductForm struct {
	NameEN        string     `json:"name_en" validate:"required,max=255"`
	NameAR        string     `json:"name_ar" validate:"required,max=255"`
	DescriptionEN string     `json:"description_en" validate:"max=5000"`
	DescriptionAR string     `json:"description_ar" validate:"max=5000"`
	Price         string     `json:"price" validate:"required,price"`
	Slug          string     `json:"slug" validate:"required,slug,max=255"`
	CompanyID     int64      `json:"company_id" validate:"required,gt=0"`
	Images        []ImageRef `json:"images" validate:"min=1"`
}

func (f *ProductForm) values() map[string]string {
	return map[string]string{
		"name_en":        f.NameEN,
		"name_ar":        f.NameAR,
		"description_en": f.DescriptionEN,
		"description_ar": f.DescriptionAR,
	}
}

func (f *ProductForm) Prepare() {
	for _, p := range []*string{&f.NameEN, &f.NameAR, &f.DescriptionEN, &f.DescriptionAR, &f.Price} {
		*p = strings.TrimSpace(*p)
	}
	f.Slug = slug.Generate(f.NameEN)
}

// Input builds the mutation input with the product's final image URLs.
func (f *ProductForm) Input(images []string) catalog.ProductInput {
	v := f.values()
	return catalog.ProductInput{
		Name:        i18n.FieldText(v, "name"),
		Description: nonEmpty(i18n.FieldText(v, "description")),
		Price:       f.Price,
		Slug:        f.Slug,
		CompanyID:   f.CompanyID,
		Images:      images,
	}
}

// ProductFormFrom fills the edit dialog from a stored product; every image
// starts out as already uploaded.
func ProductFormFrom(p *products.Product) *ProductForm {
	v := map[string]string{}
	i18n.Flatten(p.Name, "name", v)
	i18n.Flatten(p.Description, "description", v)
	f := &ProductForm{
		NameEN:        i18n.Field(v, "name", i18n.English),
		NameAR:        i18n.Field(v, "name", i18n.Arabic),
		DescriptionEN: i18n.Field(v, "description", i18n.English),
		DescriptionAR: i18n.Field(v, "description", i18n.Arabic),
		Price:         p.Price,
		Slug:          p.Slug,
		CompanyID:     p.CompanyID,
	}
	for _, u := range p.ImageURLs() {
		f.Images = append(f.Images, Uploaded(u))
	}
	return f
}

// DecodeProduct reads the JSON payload of a product submission and binds
// pending images to files.
func DecodeProduct(payload []byte, files []*multipart.FileHeader) (*ProductForm, error) {
	var f ProductForm
	if err := decodeStrict(payload, &f); err != nil {
		return nil, err
	}
	if err := bind(f.Images, files); err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeStrict(payload []byte, into any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// nonEmpty drops blank locales so an unset optional text stays absent.
func nonEmpty(t i18n.Text) i18n.Text {
	for l, v := range t {
		if v == "" {
			delete(t, l)
		}
	}
	return t
}
