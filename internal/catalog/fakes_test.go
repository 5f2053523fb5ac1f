package catalog

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"souq/internal/domain/companies"
	"souq/internal/domain/filequeue"
	"souq/internal/domain/products"
	"souq/internal/domain/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

// memDB is an in-memory stand-in for the catalog tables.
type memDB struct {
	mu        sync.Mutex
	seq       int64
	clock     time.Time
	companies map[int64]*companies.Company
	products  map[int64]*products.Product
	images    map[int64][]string
	failList  bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		companies: map[int64]*companies.Company{},
		products:  map[int64]*products.Product{},
		images:    map[int64][]string{},
	}
}

func (db *memDB) next() (int64, time.Time) {
	db.seq++
	db.clock = db.clock.Add(time.Second)
	return db.seq, db.clock
}

func uniqueErr(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type memCompanies struct{ db *memDB }

func (s memCompanies) List(context.Context) ([]*companies.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failList {
		return nil, errors.New("connection refused")
	}
	var list []*companies.Company
	for _, c := range s.db.companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s memCompanies) GetByID(_ context.Context, id int64) (*companies.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s memCompanies) GetBySlug(_ context.Context, slug string) (*companies.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.companies {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s memCompanies) Count(context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.companies), nil
}

func (s memCompanies) conflict(c *companies.Company) error {
	for _, other := range s.db.companies {
		if other.ID == c.ID {
			continue
		}
		if other.Slug == c.Slug {
			return uniqueErr("companies_slug_key")
		}
		if other.Name["en"] == c.Name["en"] {
			return uniqueErr("companies_name_en_key")
		}
	}
	return nil
}

func (s memCompanies) Create(_ context.Context, c *companies.Company) (*companies.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.conflict(c); err != nil {
		return nil, err
	}
	cp := *c
	cp.ID, cp.CreatedAt = s.db.next()
	cp.UpdatedAt = cp.CreatedAt
	s.db.companies[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s memCompanies) Update(_ context.Context, c *companies.Company) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	old, ok := s.db.companies[c.ID]
	if !ok {
		return companies.ErrCompanyNotFound
	}
	if err := s.conflict(c); err != nil {
		return err
	}
	cp := *c
	cp.CreatedAt = old.CreatedAt
	s.db.companies[c.ID] = &cp
	return nil
}

func (s memCompanies) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.companies[id]; !ok {
		return companies.ErrCompanyNotFound
	}
	delete(s.db.companies, id)
	for pid, p := range s.db.products {
		if p.CompanyID == id {
			delete(s.db.products, pid)
			delete(s.db.images, pid)
		}
	}
	return nil
}

type memProducts struct{ db *memDB }

func (s memProducts) hydrate(p *products.Product) *products.Product {
	cp := *p
	if c, ok := s.db.companies[p.CompanyID]; ok {
		cc := *c
		cp.Company = &cc
	}
	cp.Images = nil
	for _, u := range s.db.images[p.ID] {
		cp.Images = append(cp.Images, &products.ProductImage{ProductID: p.ID, URL: u})
	}
	return &cp
}

func (s memProducts) sorted(keep func(*products.Product) bool) []*products.Product {
	var list []*products.Product
	for _, p := range s.db.products {
		if keep(p) {
			list = append(list, s.hydrate(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (s memProducts) List(context.Context) ([]*products.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.sorted(func(*products.Product) bool { return true }), nil
}

func (s memProducts) ListByCompany(_ context.Context, companyID int64, search string) ([]*products.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	term := strings.ToLower(search)
	return s.sorted(func(p *products.Product) bool {
		if p.CompanyID != companyID {
			return false
		}
		if term == "" {
			return true
		}
		for _, v := range append(p.Name.Values(), p.Description.Values()...) {
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	}), nil
}

func (s memProducts) GetByID(_ context.Context, id int64) (*products.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return nil, nil
	}
	return s.hydrate(p), nil
}

func (s memProducts) GetBySlug(_ context.Context, slug string) (*products.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.products {
		if p.Slug == slug {
			return s.hydrate(p), nil
		}
	}
	return nil, nil
}

func (s memProducts) Count(context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.products), nil
}

func (s memProducts) conflict(p *products.Product) error {
	if _, ok := s.db.companies[p.CompanyID]; !ok {
		return &pgconn.PgError{Code: "23503", ConstraintName: "products_company_id_fkey"}
	}
	for _, other := range s.db.products {
		if other.ID == p.ID {
			continue
		}
		if other.Slug == p.Slug {
			return uniqueErr("products_slug_key")
		}
		if other.Name["en"] == p.Name["en"] {
			return uniqueErr("products_name_en_key")
		}
	}
	return nil
}

func (s memProducts) Create(_ context.Context, p *products.Product, imageURLs []string) (*products.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.conflict(p); err != nil {
		return nil, err
	}
	cp := *p
	cp.ID, cp.CreatedAt = s.db.next()
	s.db.products[cp.ID] = &cp
	s.db.images[cp.ID] = append([]string(nil), imageURLs...)
	return s.hydrate(&cp), nil
}

func (s memProducts) UpdateWithImages(_ context.Context, p *products.Product, removeURLs, addURLs []string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	old, ok := s.db.products[p.ID]
	if !ok {
		return products.ErrProductNotFound
	}
	if err := s.conflict(p); err != nil {
		return err
	}
	cp := *p
	cp.CreatedAt = old.CreatedAt
	s.db.products[p.ID] = &cp
	s.db.images[p.ID] = append(without(s.db.images[p.ID], removeURLs), addURLs...)
	return nil
}

func (s memProducts) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.products[id]; !ok {
		return products.ErrProductNotFound
	}
	delete(s.db.products, id)
	delete(s.db.images, id)
	return nil
}

func (s memProducts) ListImageURLs(_ context.Context, productID int64) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]string(nil), s.db.images[productID]...), nil
}

func (s memProducts) ListImageURLsByCompany(_ context.Context, companyID int64) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var urls []string
	for _, p := range s.sorted(func(p *products.Product) bool { return p.CompanyID == companyID }) {
		urls = append(urls, p.ImageURLs()...)
	}
	return urls, nil
}

type memQueue struct {
	mu      sync.Mutex
	seq     int64
	entries map[string]*filequeue.Entry
	retries map[int64]time.Duration
}

func newMemQueue() *memQueue {
	return &memQueue{entries: map[string]*filequeue.Entry{}, retries: map[int64]time.Duration{}}
}

func (q *memQueue) Enqueue(_ context.Context, keys []string, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range keys {
		if _, ok := q.entries[k]; ok {
			continue
		}
		q.seq++
		q.entries[k] = &filequeue.Entry{ID: q.seq, FileKey: k, Reason: reason}
	}
	return nil
}

func (q *memQueue) Due(context.Context, int) ([]*filequeue.Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var list []*filequeue.Entry
	for _, e := range q.entries {
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (q *memQueue) Done(_ context.Context, keys []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range keys {
		delete(q.entries, k)
	}
	return nil
}

func (q *memQueue) Retry(_ context.Context, id int64, lastErr string, backoff time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.ID == id {
			e.Attempts++
			e.LastError = &lastErr
			q.retries[id] = backoff
		}
	}
	return nil
}

func (q *memQueue) Pending(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

func (q *memQueue) keys() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var keys []string
	for k := range q.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type memTx struct {
	db    *memDB
	queue *memQueue
}

func (t memTx) WithCatalogTx(_ context.Context, fn func(s *storage.CatalogTx) error) error {
	return fn(&storage.CatalogTx{
		Companies:     memCompanies{t.db},
		Products:      memProducts{t.db},
		FileDeletions: t.queue,
	})
}

const hostBase = "https://files.test/f/"

type fakeHost struct {
	mu         sync.Mutex
	deleteCall [][]string
	fail       map[string]bool
}

func (h *fakeHost) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("not used")
}

func (h *fakeHost) DeleteFiles(_ context.Context, keys []string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleteCall = append(h.deleteCall, append([]string(nil), keys...))
	var failed []string
	for _, k := range keys {
		if h.fail[k] {
			failed = append(failed, k)
		}
	}
	if len(failed) > 0 {
		return failed, errors.New("host unavailable")
	}
	return nil, nil
}

func (h *fakeHost) KeyFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, hostBase) {
		return "", false
	}
	return strings.TrimPrefix(u, hostBase), true
}

func (h *fakeHost) deleted() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var all []string
	for _, c := range h.deleteCall {
		all = append(all, c...)
	}
	return all
}

type fakePages struct {
	mu    sync.Mutex
	paths []string
}

func (p *fakePages) Revalidate(_ context.Context, paths ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, paths...)
	return nil
}

type harness struct {
	svc   *Service
	db    *memDB
	queue *memQueue
	host  *fakeHost
	pages *fakePages
}

func newHarness() *harness {
	db := newMemDB()
	q := newMemQueue()
	h := &fakeHost{fail: map[string]bool{}}
	pages := &fakePages{}
	svc := New(Deps{
		Companies:     memCompanies{db},
		Products:      memProducts{db},
		FileDeletions: q,
		Tx:            memTx{db: db, queue: q},
		Host:          h,
		Pages:         pages,
	})
	return &harness{svc: svc, db: db, queue: q, host: h, pages: pages}
}
