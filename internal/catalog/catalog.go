// Package catalog is the read and mutation layer over companies, products and
// their hosted images.
package catalog

import (
	"context"
	"strings"

	"souq/internal/dberr"
	"souq/internal/domain/companies"
	"souq/internal/domain/filequeue"
	"souq/internal/domain/products"
	"souq/internal/domain/storage"
	"souq/internal/filehost"
	"souq/internal/i18n"

	"go.uber.org/zap"
)

// Result is what every mutation reports back. Mutations never return Go
// errors; failures are logged and summarised in Error.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

func succeeded(id int64) Result { return Result{Success: true, ID: id} }

func failure(msg string) Result { return Result{Error: msg} }

// TxRunner runs fn against repositories bound to a single transaction.
type TxRunner interface {
	WithCatalogTx(ctx context.Context, fn func(s *storage.CatalogTx) error) error
}

// Revalidator drops cached pages at or below each of paths.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string) error
}

type Deps struct {
	Companies     companies.Store
	Products      products.Store
	FileDeletions filequeue.Store
	Tx            TxRunner
	Host          filehost.Host
	Pages         Revalidator
	Logger        *zap.SugaredLogger
}

type Service struct {
	companies companies.Store
	products  products.Store
	deletions filequeue.Store
	tx        TxRunner
	host      filehost.Host
	pages     Revalidator
	logger    *zap.SugaredLogger
}

func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		companies: d.Companies,
		products:  d.Products,
		deletions: d.FileDeletions,
		tx:        d.Tx,
		host:      d.Host,
		pages:     d.Pages,
		logger:    logger,
	}
}

// NewService wires a Service over the Postgres-backed storage container.
func NewService(store *storage.Container, host filehost.Host, pages Revalidator, logger *zap.SugaredLogger) *Service {
	return New(Deps{
		Companies:     store.Companies,
		Products:      store.Products,
		FileDeletions: store.FileDeletions,
		Tx:            store,
		Host:          host,
		Pages:         pages,
		Logger:        logger,
	})
}

const (
	msgCompanyExists     = "A Company with this name already exists."
	msgCompanySlugExists = "A Company with this slug already exists."
	msgProductExists     = "A Product with this name already exists."
	msgProductSlugExists = "A Product with this slug already exists."
	msgCompanyMissing    = "The selected company does not exist."
	msgRequiredMissing   = "A required field is missing."
	msgCompanyNotFound   = "Company not found."
	msgProductNotFound   = "Product not found."

	msgAddCompany    = "Failed to add company."
	msgUpdateCompany = "Failed to update company."
	msgDeleteCompany = "Failed to delete company. Please try again."
	msgAddProduct    = "Failed to add product."
	msgUpdateProduct = "Failed to update product"
	msgDeleteProduct = "Failed to delete product. Please try again."

	// MsgGeneric is shown when a failure carries no message of its own.
	MsgGeneric = "Something went wrong."
)

// describe turns a database error into the message shown to the admin.
func describe(err error, nameTaken, slugTaken, fallback string) string {
	switch {
	case dberr.IsUniqueViolation(err):
		if strings.HasSuffix(dberr.Constraint(err), "slug_key") {
			return slugTaken
		}
		return nameTaken
	case dberr.IsCode(err, dberr.ForeignKeyViolation):
		return msgCompanyMissing
	case dberr.IsCode(err, dberr.NotNullViolation):
		return msgRequiredMissing
	}
	return fallback
}

// localized prefixes each path with every supported locale.
func localized(paths ...string) []string {
	out := make([]string, 0, len(paths)*len(i18n.Supported))
	for _, l := range i18n.Supported {
		for _, p := range paths {
			out = append(out, "/"+string(l)+p)
		}
	}
	return out
}

var (
	// Company names and button texts show up on every page of a locale.
	companyPaths = localized("")
	productPaths = localized("/dashboard", "/company")
)

func (s *Service) revalidate(ctx context.Context, paths []string) {
	if s.pages == nil {
		return
	}
	if err := s.pages.Revalidate(ctx, paths...); err != nil {
		s.logger.Warnw("revalidation failed", "paths", paths, "err", err)
	}
}
