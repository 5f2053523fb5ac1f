package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"souq/internal/catalog"
	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/forms"
	"souq/internal/params"
	"souq/internal/slug"
	"souq/internal/storefront"
	"souq/internal/uploads"

	"github.com/go-chi/chi/v5"
)

// multipart bodies carry the payload plus up to MaxFiles images.
const maxProductBody = uploads.MaxFiles*uploads.MaxFileSize + 1<<20

type dashboardCompanies struct {
	Companies []*companies.Company `json:"companies"`
	Search    string               `json:"search,omitempty"`
}

type dashboardProducts struct {
	Products   []*products.Product `json:"products"`
	Pagination params.Pagination   `json:"pagination"`
	Search     string              `json:"search,omitempty"`
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// writeOutcome answers a dialog submission. Rejections are 422 so the client
// keeps the dialog open.
func (app *application) writeOutcome(w http.ResponseWriter, r *http.Request, created bool, out forms.Outcome) {
	status := http.StatusOK
	switch {
	case !out.Success:
		status = http.StatusUnprocessableEntity
	case created:
		status = http.StatusCreated
	}
	if err := writeJSON(w, status, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) writeResult(w http.ResponseWriter, r *http.Request, res catalog.Result) {
	out := forms.Outcome{Success: res.Success, Error: res.Error, Close: res.Success, ID: res.ID}
	if !res.Success && out.Error == "" {
		out.Error = catalog.MsgGeneric
	}
	app.writeOutcome(w, r, false, out)
}

// dashboardHandler godoc
//
//	@Summary		Dashboard overview
//	@Tags			dashboard
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Success		200		{object}	catalog.Stats
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard [get]
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.catalog.Stats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	page := storefront.NewPage(getLocale(r), r.URL.Path, stats)
	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}

// dashboardCompaniesHandler godoc
//
//	@Summary		Companies table
//	@Description	All companies with both locales, filtered by q
//	@Tags			dashboard
//	@Produce		json
//	@Param			locale	path	string	true	"en or ar"
//	@Param			q		query	string	false	"instant search"
//	@Success		200		{object}	storefront.Page
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/companies [get]
func (app *application) dashboardCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	q := params.ParseSearch(r.URL.Query(), "q")
	list := storefront.FilterCompanies(app.catalog.GetCompanies(r.Context()), q)

	page := storefront.NewPage(getLocale(r), r.URL.Path, dashboardCompanies{Companies: list, Search: q})
	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}

// dashboardProductsHandler godoc
//
//	@Summary		Products table
//	@Tags			dashboard
//	@Produce		json
//	@Param			locale	path	string	true	"en or ar"
//	@Param			q		query	string	false	"instant search"
//	@Param			page	query	int		false	"page number"
//	@Param			limit	query	int		false	"page size"
//	@Success		200		{object}	storefront.Page
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/products [get]
func (app *application) dashboardProductsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := params.ParseSearch(query, "q")
	pg := params.ParsePagination(query)

	list, err := app.catalog.GetProducts(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	list = params.Slice(storefront.FilterProducts(list, q), &pg)

	data := dashboardProducts{Products: list, Pagination: pg, Search: q}
	if err := app.jsonResponse(w, http.StatusOK, storefront.NewPage(getLocale(r), r.URL.Path, data)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// companyFormHandler returns the stored company as edit-dialog values.
func (app *application) companyFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	c, err := app.catalog.GetCompany(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if c == nil {
		app.notFoundResponse(w, r, companies.ErrCompanyNotFound)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, forms.CompanyFormFrom(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// productFormHandler returns the stored product as edit-dialog values.
func (app *application) productFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p, err := app.catalog.GetProduct(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if p == nil {
		app.notFoundResponse(w, r, products.ErrProductNotFound)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, forms.ProductFormFrom(p)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addCompanyHandler godoc
//
//	@Summary		Add company
//	@Tags			dashboard
//	@Accept			json
//	@Produce		json
//	@Param			locale	path		string				true	"en or ar"
//	@Param			payload	body		forms.CompanyForm	true	"company dialog values"
//	@Success		201		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/companies [post]
func (app *application) addCompanyHandler(w http.ResponseWriter, r *http.Request) {
	var f forms.CompanyForm
	if err := readJSON(w, r, &f); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	out := app.submitter.SubmitCompany(r.Context(), getLocale(r), &f, app.catalog.AddCompany)
	app.writeOutcome(w, r, true, out)
}

// updateCompanyHandler godoc
//
//	@Summary		Update company
//	@Tags			dashboard
//	@Accept			json
//	@Produce		json
//	@Param			locale	path		string				true	"en or ar"
//	@Param			id		path		int					true	"company ID"
//	@Param			payload	body		forms.CompanyForm	true	"company dialog values"
//	@Success		200		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/companies/{id} [put]
func (app *application) updateCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var f forms.CompanyForm
	if err := readJSON(w, r, &f); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	out := app.submitter.SubmitCompany(r.Context(), getLocale(r), &f, func(ctx context.Context, in catalog.CompanyInput) catalog.Result {
		return app.catalog.UpdateCompany(ctx, id, in)
	})
	app.writeOutcome(w, r, false, out)
}

// deleteCompanyHandler godoc
//
//	@Summary		Delete company
//	@Description	Deletes the company, its products and their hosted images
//	@Tags			dashboard
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			id		path		int		true	"company ID"
//	@Success		200		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/companies/{id} [delete]
func (app *application) deleteCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	app.writeResult(w, r, app.catalog.DeleteCompany(r.Context(), id))
}

// readProductForm parses a multipart product submission: the dialog values
// as JSON in "payload" and newly picked files in "images".
func (app *application) readProductForm(w http.ResponseWriter, r *http.Request) (*forms.ProductForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	payload := r.FormValue("payload")
	if payload == "" {
		return nil, errors.New("payload is required")
	}
	return forms.DecodeProduct([]byte(payload), r.MultipartForm.File["images"])
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// addProductHandler godoc
//
//	@Summary		Add product
//	@Description	Uploads the pending images, then creates the product
//	@Tags			dashboard
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			payload	formData	string	true	"product dialog values as JSON"
//	@Param			images	formData	file	false	"pending images"
//	@Success		201		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/products [post]
func (app *application) addProductHandler(w http.ResponseWriter, r *http.Request) {
	defer cleanupMultipart(r)

	f, err := app.readProductForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	out := app.submitter.SubmitProduct(r.Context(), getLocale(r), f, app.catalog.AddProduct)
	app.writeOutcome(w, r, true, out)
}

// updateProductHandler godoc
//
//	@Summary		Update product
//	@Description	Retained image URLs stay, removed ones are deleted from the file host
//	@Tags			dashboard
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			id		path		int		true	"product ID"
//	@Param			payload	formData	string	true	"product dialog values as JSON"
//	@Param			images	formData	file	false	"pending images"
//	@Success		200		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/products/{id} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	defer cleanupMultipart(r)

	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	f, err := app.readProductForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	out := app.submitter.SubmitProduct(r.Context(), getLocale(r), f, func(ctx context.Context, in catalog.ProductInput) catalog.Result {
		return app.catalog.UpdateProduct(ctx, id, in)
	})
	app.writeOutcome(w, r, false, out)
}

// deleteProductHandler godoc
//
//	@Summary		Delete product
//	@Tags			dashboard
//	@Produce		json
//	@Param			locale	path		string	true	"en or ar"
//	@Param			id		path		int		true	"product ID"
//	@Success		200		{object}	forms.Outcome
//	@Failure		422		{object}	forms.Outcome
//	@Security		ApiKeyAuth
//	@Router			/{locale}/dashboard/products/{id} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	app.writeResult(w, r, app.catalog.DeleteProductAndImages(r.Context(), id))
}

// slugPreviewHandler godoc
//
//	@Summary		Slug preview
//	@Description	Returns the slug the dialog will submit for name
//	@Tags			dashboard
//	@Produce		json
//	@Param			name	query		string	true	"display name"
//	@Success		200		{object}	map[string]string
//	@Router			/api/slug [get]
func (app *application) slugPreviewHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"slug": slug.Generate(name)}); err != nil {
		app.internalServerError(w, r, err)
	}
}
