package main

import (
	"fmt"
	"net/http"

	"souq/internal/params"
	"souq/internal/storefront"

	"github.com/go-chi/chi/v5"
)

// companiesPageHandler godoc
//
//	@Summary		Home page
//	@Description	Lists companies newest first in the requested locale
//	@Tags			storefront
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Success		200		{object}	storefront.Page
//	@Failure		404		{object}	error
//	@Router			/{locale}/ [get]
func (app *application) companiesPageHandler(w http.ResponseWriter, r *http.Request) {
	l := getLocale(r)
	list := app.catalog.GetCompanies(r.Context())

	page := storefront.NewPage(l, r.URL.Path, storefront.Companies(list, l))
	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}

// companyPageHandler godoc
//
//	@Summary		Company page
//	@Tags			storefront
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			slug	path		string	true	"company slug"
//	@Success		200		{object}	storefront.Page
//	@Failure		404		{object}	error
//	@Router			/{locale}/company/{slug} [get]
func (app *application) companyPageHandler(w http.ResponseWriter, r *http.Request) {
	l := getLocale(r)
	slug := chi.URLParam(r, "slug")

	c, err := app.catalog.GetCompanyBySlug(r.Context(), slug)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if c == nil {
		app.notFoundResponse(w, r, fmt.Errorf("company %q", slug))
		return
	}

	page := storefront.NewPage(l, r.URL.Path, storefront.Company(c, l))
	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}

// companyProductsPageHandler godoc
//
//	@Summary		Company products
//	@Description	Company with its products, optionally narrowed by search
//	@Tags			storefront
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			slug	path		string	true	"company slug"
//	@Param			search	query		string	false	"name or description contains"
//	@Success		200		{object}	storefront.Page
//	@Failure		404		{object}	error
//	@Router			/{locale}/company/{slug}/products [get]
func (app *application) companyProductsPageHandler(w http.ResponseWriter, r *http.Request) {
	l := getLocale(r)
	slug := chi.URLParam(r, "slug")
	search := params.ParseSearch(r.URL.Query(), "search")

	cp, err := app.catalog.GetCompanyWithProducts(r.Context(), slug, search)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cp == nil {
		app.notFoundResponse(w, r, fmt.Errorf("company %q", slug))
		return
	}

	data := storefront.CompanyPage{
		Company:  storefront.Company(cp.Company, l),
		Products: storefront.Products(cp.Products, l),
		Search:   search,
	}
	if err := app.jsonResponse(w, http.StatusOK, storefront.NewPage(l, r.URL.Path, data)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// productPageHandler godoc
//
//	@Summary		Product page
//	@Tags			storefront
//	@Produce		json
//	@Param			locale		path		string	true	"en or ar"
//	@Param			slug		path		string	true	"company slug"
//	@Param			productSlug	path		string	true	"product slug"
//	@Success		200			{object}	storefront.Page
//	@Failure		404			{object}	error
//	@Router			/{locale}/company/{slug}/products/{productSlug} [get]
func (app *application) productPageHandler(w http.ResponseWriter, r *http.Request) {
	l := getLocale(r)
	companySlug := chi.URLParam(r, "slug")
	productSlug := chi.URLParam(r, "productSlug")

	p, err := app.catalog.GetProductBySlug(r.Context(), productSlug)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if p == nil || p.Company == nil || p.Company.Slug != companySlug {
		app.notFoundResponse(w, r, fmt.Errorf("product %q of company %q", productSlug, companySlug))
		return
	}

	page := storefront.NewPage(l, r.URL.Path, storefront.Product(p, l))
	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}
