package companies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"souq/internal/i18n"
	"souq/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

var ErrCompanyNotFound = errors.New("company not found")

// Store is the data access abstraction for companies.
type Store interface {
	List(ctx context.Context) ([]*Company, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	GetBySlug(ctx context.Context, slug string) (*Company, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c *Company) (*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

const companyColumns = `id, name, description, slug, video_url, button_text, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*Company, error) {
	var (
		c                      Company
		name, desc, buttonText []byte
	)
	if err := row.Scan(&c.ID, &name, &desc, &c.Slug, &c.VideoURL, &buttonText, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalText(name, &c.Name); err != nil {
		return nil, fmt.Errorf("decode name: %w", err)
	}
	if err := unmarshalText(desc, &c.Description); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	if err := unmarshalText(buttonText, &c.ButtonText); err != nil {
		return nil, fmt.Errorf("decode button text: %w", err)
	}
	return &c, nil
}

func unmarshalText(raw []byte, into *i18n.Text) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}

// MarshalText encodes a localized value for a JSONB column; empty maps are
// stored as NULL.
func MarshalText(t i18n.Text) ([]byte, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return json.Marshal(t)
}

// List returns all companies, newest first.
func (r *Repository) List(ctx context.Context) ([]*Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetBySlug returns nil, nil when no company has the slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by slug: %w", err)
	}
	return c, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

func (r *Repository) Create(ctx context.Context, c *Company) (*Company, error) {
	name, desc, buttonText, err := encodeTexts(c)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO companies (name, description, slug, video_url, button_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyColumns,
		name, desc, c.Slug, c.VideoURL, buttonText,
	)
	created, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}

// Update overwrites every field of the company identified by c.ID.
func (r *Repository) Update(ctx context.Context, c *Company) error {
	name, desc, buttonText, err := encodeTexts(c)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx, `
		UPDATE companies
		SET name = $1, description = $2, slug = $3, video_url = $4, button_text = $5, updated_at = now()
		WHERE id = $6`,
		name, desc, c.Slug, c.VideoURL, buttonText, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Delete removes the company; products and their image rows go with it
// through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func encodeTexts(c *Company) (name, desc, buttonText []byte, err error) {
	if name, err = MarshalText(c.Name); err != nil {
		return nil, nil, nil, fmt.Errorf("encode name: %w", err)
	}
	if desc, err = MarshalText(c.Description); err != nil {
		return nil, nil, nil, fmt.Errorf("encode description: %w", err)
	}
	if buttonText, err = MarshalText(c.ButtonText); err != nil {
		return nil, nil, nil, fmt.Errorf("encode button text: %w", err)
	}
	return name, desc, buttonText, nil
}
