package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"souq/internal/domain/companies"
	"souq/internal/i18n"
	"souq/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the data access abstraction for products and their images.
// Every read that returns products attaches the owning company and images.
type Store interface {
	List(ctx context.Context) ([]*Product, error)
	ListByCompany(ctx context.Context, companyID int64, search string) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Count(ctx context.Context) (int, error)

	Create(ctx context.Context, p *Product, imageURLs []string) (*Product, error)
	UpdateWithImages(ctx context.Context, p *Product, removeURLs, addURLs []string) error
	Delete(ctx context.Context, id int64) error

	ListImageURLs(ctx context.Context, productID int64) ([]string, error)
	ListImageURLsByCompany(ctx context.Context, companyID int64) ([]string, error)
}

type Repository struct {
	db dbx.Pool
}

func NewRepository(db dbx.Pool) *Repository {
	return &Repository{db: db}
}

// ------------------------------------
// Transaction helper
// ------------------------------------
func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Printf("warning: rollback failed: %v", err)
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("tx fn: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ------------------------------------
// Reads
// ------------------------------------
const productSelect = `
	SELECT p.id, p.name, p.description, p.price::text, p.slug, p.company_id, p.created_at, p.updated_at,
	       c.id, c.name, c.description, c.slug, c.video_url, c.button_text, c.created_at, c.updated_at
	FROM products p
	JOIN companies c ON c.id = p.company_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*Product, error) {
	var (
		p                         Product
		c                         companies.Company
		pName, pDesc              []byte
		cName, cDesc, cButtonText []byte
	)
	err := row.Scan(
		&p.ID, &pName, &pDesc, &p.Price, &p.Slug, &p.CompanyID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &cName, &cDesc, &c.Slug, &c.VideoURL, &cButtonText, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		raw  []byte
		into *i18n.Text
	}{
		{pName, &p.Name}, {pDesc, &p.Description},
		{cName, &c.Name}, {cDesc, &c.Description}, {cButtonText, &c.ButtonText},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.into); err != nil {
			return nil, fmt.Errorf("decode localized column: %w", err)
		}
	}

	p.Company = &c
	p.Images = []*ProductImage{}
	return &p, nil
}

func (r *Repository) queryProducts(ctx context.Context, q dbx.Querier, sql string, args ...any) ([]*Product, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if err := r.attachImages(ctx, q, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) attachImages(ctx context.Context, q dbx.Querier, list []*Product) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(list))
	byID := make(map[int64]*Product, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	rows, err := q.Query(ctx, `
		SELECT id, product_id, url
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, id`, ids)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if p, ok := byID[img.ProductID]; ok {
			p.Images = append(p.Images, &img)
		}
	}
	return rows.Err()
}

// List returns all products newest first.
func (r *Repository) List(ctx context.Context) ([]*Product, error) {
	list, err := r.queryProducts(ctx, r.db, productSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// ListByCompany returns the company's products. A non-empty search keeps
// only products whose name or description, in any locale, contains it
// case-insensitively.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, search string) ([]*Product, error) {
	query := productSelect + ` WHERE p.company_id = $1`
	args := []any{companyID}

	if search = strings.TrimSpace(search); search != "" {
		query += `
		  AND EXISTS (
			SELECT 1 FROM jsonb_each_text(p.name) AS n(k, v) WHERE n.v ILIKE $2
			UNION ALL
			SELECT 1 FROM jsonb_each_text(COALESCE(p.description, '{}'::jsonb)) AS d(k, v) WHERE d.v ILIKE $2
		  )`
		args = append(args, "%"+EscapeLike(search)+"%")
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`

	list, err := r.queryProducts(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list company products: %w", err)
	}
	return list, nil
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachImages(ctx, r.db, []*Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns nil, nil when the product does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	p, err := r.getOne(ctx, `p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySlug returns nil, nil when no product has the slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := r.getOne(ctx, `p.slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *Repository) ListImageURLs(ctx context.Context, productID int64) ([]string, error) {
	return r.listURLs(ctx, `SELECT url FROM product_images WHERE product_id = $1 ORDER BY id`, productID)
}

func (r *Repository) ListImageURLsByCompany(ctx context.Context, companyID int64) ([]string, error) {
	return r.listURLs(ctx, `
		SELECT i.url
		FROM product_images i
		JOIN products p ON p.id = i.product_id
		WHERE p.company_id = $1
		ORDER BY i.id`, companyID)
}

func (r *Repository) listURLs(ctx context.Context, query string, id int64) ([]string, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// ------------------------------------
// Writes
// ------------------------------------

// Create inserts the product and its image rows in one transaction.
func (r *Repository) Create(ctx context.Context, p *Product, imageURLs []string) (*Product, error) {
	name, desc, err := encodeTexts(p)
	if err != nil {
		return nil, err
	}

	err = r.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO products (name, description, price, slug, company_id)
			VALUES ($1, $2, $3::numeric, $4, $5)
			RETURNING id, price::text, created_at, updated_at`,
			name, desc, p.Price, p.Slug, p.CompanyID,
		)
		if err := row.Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return insertImages(ctx, tx, p.ID, imageURLs)
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	p.Images = make([]*ProductImage, 0, len(imageURLs))
	for _, u := range imageURLs {
		p.Images = append(p.Images, &ProductImage{ProductID: p.ID, URL: u})
	}
	return p, nil
}

// UpdateWithImages overwrites the product's scalar fields, deletes the image
// rows whose URL is in removeURLs and inserts rows for addURLs, atomically.
func (r *Repository) UpdateWithImages(ctx context.Context, p *Product, removeURLs, addURLs []string) error {
	name, desc, err := encodeTexts(p)
	if err != nil {
		return err
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE products
			SET name = $1, description = $2, price = $3::numeric, slug = $4, company_id = $5, updated_at = now()
			WHERE id = $6`,
			name, desc, p.Price, p.Slug, p.CompanyID, p.ID,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return ErrProductNotFound
		}

		if len(removeURLs) > 0 {
			if _, err := tx.Exec(ctx,
				`DELETE FROM product_images WHERE product_id = $1 AND url = ANY($2)`,
				p.ID, removeURLs,
			); err != nil {
				return fmt.Errorf("delete product images: %w", err)
			}
		}

		return insertImages(ctx, tx, p.ID, addURLs)
	})
}

func insertImages(ctx context.Context, tx dbx.Querier, productID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO product_images (product_id, url)
		SELECT $1, u FROM unnest($2::text[]) WITH ORDINALITY AS t(u, ord)
		ORDER BY ord`,
		productID, urls,
	)
	if err != nil {
		return fmt.Errorf("insert product images: %w", err)
	}
	return nil
}

// Delete removes the product; its image rows cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func encodeTexts(p *Product) (name, desc []byte, err error) {
	if name, err = companies.MarshalText(p.Name); err != nil {
		return nil, nil, fmt.Errorf("encode name: %w", err)
	}
	if desc, err = companies.MarshalText(p.Description); err != nil {
		return nil, nil, fmt.Errorf("encode description: %w", err)
	}
	return name, desc, nil
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
