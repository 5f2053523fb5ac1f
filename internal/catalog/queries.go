package catalog

import (
	"context"
	"fmt"
	"strings"

	"souq/internal/domain/companies"
	"souq/internal/domain/products"
)

// CompanyWithProducts is a company page: the company and the products it owns.
type CompanyWithProducts struct {
	Company  *companies.Company  `json:"company"`
	Products []*products.Product `json:"products"`
}

// Stats backs the dashboard landing page.
type Stats struct {
	Companies        int `json:"companies"`
	Products         int `json:"products"`
	PendingDeletions int `json:"pending_file_deletions"`
}

// GetCompanies lists companies newest first. A failing query yields an empty
// list, not an error.
func (s *Service) GetCompanies(ctx context.Context) []*companies.Company {
	list, err := s.companies.List(ctx)
	if err != nil {
		s.logger.Errorw("list companies failed", "op", "GetCompanies", "err", err)
		return []*companies.Company{}
	}
	if list == nil {
		list = []*companies.Company{}
	}
	return list
}

// GetProducts lists products newest first with their company and images.
func (s *Service) GetProducts(ctx context.Context) ([]*products.Product, error) {
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if list == nil {
		list = []*products.Product{}
	}
	return list, nil
}

// GetCompanyWithProducts returns nil when no company has slug. A non-empty
// search narrows the products to those whose name or description contains it
// in any locale, ignoring case.
func (s *Service) GetCompanyWithProducts(ctx context.Context, slug, search string) (*CompanyWithProducts, error) {
	c, err := s.companies.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get company %q: %w", slug, err)
	}
	if c == nil {
		return nil, nil
	}

	list, err := s.products.ListByCompany(ctx, c.ID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list products of company %d: %w", c.ID, err)
	}
	if list == nil {
		list = []*products.Product{}
	}
	return &CompanyWithProducts{Company: c, Products: list}, nil
}

// GetCompanyBySlug returns nil when no company has slug.
func (s *Service) GetCompanyBySlug(ctx context.Context, slug string) (*companies.Company, error) {
	c, err := s.companies.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get company %q: %w", slug, err)
	}
	return c, nil
}

// GetProductBySlug returns nil when no product has slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*products.Product, error) {
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return p, nil
}

func (s *Service) GetCompany(ctx context.Context, id int64) (*companies.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*products.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Companies, err = s.companies.Count(ctx); err != nil {
		return st, err
	}
	if st.Products, err = s.products.Count(ctx); err != nil {
		return st, err
	}
	if s.deletions != nil {
		if st.PendingDeletions, err = s.deletions.Pending(ctx); err != nil {
			return st, err
		}
	}
	return st, nil
}
