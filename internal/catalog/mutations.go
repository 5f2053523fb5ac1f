package catalog

import (
	"context"
	"errors"

	"souq/internal/domain/companies"
	"souq/internal/domain/products"
	"souq/internal/domain/storage"
	"souq/internal/filehost"
	"souq/internal/i18n"
)

type CompanyInput struct {
	Name        i18n.Text
	Description i18n.Text
	ButtonText  i18n.Text
	Slug        string
	VideoURL    string
}

func (in CompanyInput) company(id int64) *companies.Company {
	return &companies.Company{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Slug:        in.Slug,
		VideoURL:    in.VideoURL,
		ButtonText:  in.ButtonText,
	}
}

type ProductInput struct {
	Name        i18n.Text
	Description i18n.Text
	Price       string
	Slug        string
	CompanyID   int64
	// Images is the full, ordered set of image URLs the product should have.
	Images []string
}

func (in ProductInput) product(id int64) *products.Product {
	return &products.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Slug:        in.Slug,
		CompanyID:   in.CompanyID,
	}
}

const (
	reasonProductDeleted = "product deleted"
	reasonCompanyDeleted = "company deleted"
	reasonImageReplaced  = "image removed from product"
)

func (s *Service) AddCompany(ctx context.Context, in CompanyInput) Result {
	c, err := s.companies.Create(ctx, in.company(0))
	if err != nil {
		s.logger.Errorw("add company failed", "op", "AddCompany", "slug", in.Slug, "err", err)
		return failure(describe(err, msgCompanyExists, msgCompanySlugExists, msgAddCompany))
	}
	s.revalidate(ctx, companyPaths)
	return succeeded(c.ID)
}

// UpdateCompany overwrites every field of company id.
func (s *Service) UpdateCompany(ctx context.Context, id int64, in CompanyInput) Result {
	if err := s.companies.Update(ctx, in.company(id)); err != nil {
		s.logger.Errorw("update company failed", "op", "UpdateCompany", "id", id, "err", err)
		if errors.Is(err, companies.ErrCompanyNotFound) {
			return failure(msgCompanyNotFound)
		}
		return failure(describe(err, msgCompanyExists, msgCompanySlugExists, msgUpdateCompany))
	}
	s.revalidate(ctx, companyPaths)
	return succeeded(id)
}

// DeleteCompany removes the company with its products and image rows in one
// transaction, recording every hosted image as pending deletion. The files
// are then removed from the host; whatever fails stays recorded for the
// sweeper.
func (s *Service) DeleteCompany(ctx context.Context, id int64) Result {
	var keys []string
	err := s.tx.WithCatalogTx(ctx, func(tx *storage.CatalogTx) error {
		urls, err := tx.Products.ListImageURLsByCompany(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Companies.Delete(ctx, id); err != nil {
			return err
		}
		keys = filehost.Keys(s.host, urls)
		return tx.FileDeletions.Enqueue(ctx, keys, reasonCompanyDeleted)
	})
	if err != nil {
		s.logger.Errorw("delete company failed", "op", "DeleteCompany", "id", id, "err", err)
		if errors.Is(err, companies.ErrCompanyNotFound) {
			return failure(msgCompanyNotFound)
		}
		return failure(msgDeleteCompany)
	}

	s.purge(ctx, keys)
	s.revalidate(ctx, companyPaths)
	return succeeded(id)
}

func (s *Service) AddProduct(ctx context.Context, in ProductInput) Result {
	p, err := s.products.Create(ctx, in.product(0), dedupe(in.Images))
	if err != nil {
		s.logger.Errorw("add product failed", "op", "AddProduct", "slug", in.Slug, "err", err)
		return failure(describe(err, msgProductExists, msgProductSlugExists, msgAddProduct))
	}
	s.revalidate(ctx, productPaths)
	return succeeded(p.ID)
}

// UpdateProduct overwrites the product and reconciles its image set with
// in.Images. Removed images are deleted from the host before the database
// transaction; a failed remote delete does not abort the update, the key is
// recorded for the sweeper instead.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) Result {
	current, err := s.products.ListImageURLs(ctx, id)
	if err != nil {
		s.logger.Errorw("update product failed", "op", "UpdateProduct", "id", id, "err", err)
		return failure(msgUpdateProduct)
	}

	toDelete, toAdd := Reconcile(current, in.Images)

	if keys := filehost.Keys(s.host, toDelete); len(keys) > 0 {
		undeleted, err := s.host.DeleteFiles(ctx, keys)
		if err != nil {
			s.logger.Warnw("remote image delete failed", "op", "UpdateProduct", "id", id, "keys", undeleted, "err", err)
			s.remember(ctx, undeleted, reasonImageReplaced)
		}
	}

	if err := s.products.UpdateWithImages(ctx, in.product(id), toDelete, toAdd); err != nil {
		s.logger.Errorw("update product failed", "op", "UpdateProduct", "id", id, "err", err)
		if errors.Is(err, products.ErrProductNotFound) {
			return failure(msgProductNotFound)
		}
		return failure(describe(err, msgProductExists, msgProductSlugExists, msgUpdateProduct))
	}

	s.revalidate(ctx, productPaths)
	return succeeded(id)
}

// DeleteProductAndImages removes the product (its image rows cascade) and
// then deletes the hosted files best effort. The database delete is not
// undone when the host fails.
func (s *Service) DeleteProductAndImages(ctx context.Context, id int64) Result {
	var keys []string
	err := s.tx.WithCatalogTx(ctx, func(tx *storage.CatalogTx) error {
		urls, err := tx.Products.ListImageURLs(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Products.Delete(ctx, id); err != nil {
			return err
		}
		keys = filehost.Keys(s.host, urls)
		return tx.FileDeletions.Enqueue(ctx, keys, reasonProductDeleted)
	})
	if err != nil {
		s.logger.Errorw("delete product failed", "op", "DeleteProductAndImages", "id", id, "err", err)
		if errors.Is(err, products.ErrProductNotFound) {
			return failure(msgProductNotFound)
		}
		return failure(msgDeleteProduct)
	}

	s.purge(ctx, keys)
	s.revalidate(ctx, productPaths)
	return succeeded(id)
}

// purge deletes keys that are already recorded as pending and clears the
// record of those the host confirmed.
func (s *Service) purge(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	undeleted, err := s.host.DeleteFiles(ctx, keys)
	if err != nil {
		s.logger.Warnw("remote image delete failed", "keys", undeleted, "err", err)
	}
	if err := s.deletions.Done(ctx, without(keys, undeleted)); err != nil {
		s.logger.Warnw("clear file deletions failed", "err", err)
	}
}

func (s *Service) remember(ctx context.Context, keys []string, reason string) {
	if len(keys) == 0 || s.deletions == nil {
		return
	}
	if err := s.deletions.Enqueue(ctx, keys, reason); err != nil {
		s.logger.Errorw("record file deletions failed", "keys", keys, "err", err)
	}
}
