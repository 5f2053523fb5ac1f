package forms

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"souq/internal/catalog"
	"souq/internal/domain/products"
	"souq/internal/i18n"
	"souq/internal/uploads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPrice(t *testing.T) {
	for _, ok := range []string{"12.5", "12.50", "1", "0.01", "99999999.99"} {
		assert.True(t, ValidPrice(ok), ok)
	}
	for _, bad := range []string{"12.555", "0", "0.00", "-1", "", "1e3", "12.", ".5", "abc"} {
		assert.False(t, ValidPrice(bad), bad)
	}
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func validProduct() *ProductForm {
	return &ProductForm{
		NameEN:    "Green Tea",
		NameAR:    "شاي أخضر",
		Price:     "12.50",
		CompanyID: 1,
		Images:    []ImageRef{Uploaded("https://files.test/a.png")},
	}
}

func TestValidatorMessages(t *testing.T) {
	v := newValidator(t)

	f := validProduct()
	f.NameEN = ""
	f.Price = "12.555"
	f.Images = nil
	f.Prepare()

	errs, err := v.Check(f, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "name_en is a required field", errs["name_en"])
	assert.Equal(t, "price must be a positive amount with at most two decimals", errs["price"])
	assert.Contains(t, errs, "images")
	assert.Contains(t, errs, "slug")

	errs, err = v.Check(f, i18n.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "حقل name_en مطلوب", errs["name_en"])

	ok := validProduct()
	ok.Prepare()
	errs, err = v.Check(ok, i18n.English)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestCompanyValidation(t *testing.T) {
	v := newValidator(t)
	f := &CompanyForm{NameEN: "Acme", NameAR: "أكمي", VideoURL: "not a url", ButtonTextEN: "Shop"}
	f.Prepare()

	errs, err := v.Check(f, i18n.English)
	require.NoError(t, err)
	assert.Contains(t, errs, "video_url")
	assert.Contains(t, errs, "button_text_ar")
	assert.NotContains(t, errs, "description_en")
	assert.NotContains(t, errs, "slug")
}

func TestPrepareRecomputesSlug(t *testing.T) {
	f := &CompanyForm{NameEN: "  Acme  ", Slug: "hand-edited"}
	f.Prepare()
	assert.Equal(t, "acme", f.Slug)
	assert.Equal(t, "Acme", f.NameEN)

	f.NameEN = "Acme Trading Co."
	f.Prepare()
	assert.Equal(t, "acme-trading-co", f.Slug)

	p := &ProductForm{NameEN: "Acme"}
	p.Prepare()
	q := &ProductForm{NameEN: "Acme"}
	q.Prepare()
	assert.Equal(t, p.Slug, q.Slug)
}

func TestDecodeProductBindsPendingFiles(t *testing.T) {
	files := []*multipart.FileHeader{{Filename: "new.png"}}
	payload := []byte(`{
		"name_en": "Tea", "name_ar": "شاي", "price": "5", "company_id": 3,
		"images": [
			"https://files.test/old.png",
			{"kind": "pending", "file": 0},
			{"kind": "uploaded", "url": "https://files.test/old2.png"}
		]
	}`)

	f, err := DecodeProduct(payload, files)
	require.NoError(t, err)
	require.Len(t, f.Images, 3)
	assert.Equal(t, ImageUploaded, f.Images[0].Kind)
	assert.Equal(t, ImagePending, f.Images[1].Kind)
	assert.Same(t, files[0], f.Images[1].FileHeader())

	retained, pending := Partition(f.Images)
	assert.Equal(t, []string{"https://files.test/old.png", "https://files.test/old2.png"}, retained)
	assert.Equal(t, files, pending)
}

func TestDecodeProductRejectsBadImages(t *testing.T) {
	_, err := DecodeProduct([]byte(`{"images":[{"kind":"pending","file":2}]}`), nil)
	assert.ErrorIs(t, err, ErrBadImage)

	_, err = DecodeProduct([]byte(`{"images":["ftp://x/y.png"]}`), nil)
	assert.ErrorIs(t, err, ErrBadImage)

	_, err = DecodeProduct([]byte(`{"images":[{"kind":"other"}]}`), nil)
	assert.ErrorIs(t, err, ErrBadImage)

	_, err = DecodeProduct([]byte(`{"unknown":1}`), nil)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Merge([]string{"a", "b"}, []string{"c"}))
	assert.Empty(t, Merge(nil, nil))
}

func TestFormFromStored(t *testing.T) {
	p := &products.Product{
		Name:      i18n.Text{i18n.English: "Tea", i18n.Arabic: "شاي"},
		Price:     "5.00",
		Slug:      "tea",
		CompanyID: 2,
		Images:    []*products.ProductImage{{URL: "https://files.test/a.png"}},
	}
	f := ProductFormFrom(p)
	assert.Equal(t, "Tea", f.NameEN)
	assert.Equal(t, "شاي", f.NameAR)
	assert.Equal(t, []ImageRef{Uploaded("https://files.test/a.png")}, f.Images)

	assert.Equal(t, "5.00", f.Price)
	assert.Equal(t, int64(2), f.CompanyID)
}

type fakeUploader struct {
	calls     int
	got       []*multipart.FileHeader
	urls      []string
	err       error
	discarded []string
}

func (u *fakeUploader) Upload(_ context.Context, files []*multipart.FileHeader) ([]string, error) {
	u.calls++
	u.got = files
	return u.urls, u.err
}

func (u *fakeUploader) Discard(_ context.Context, urls []string) error {
	u.discarded = append(u.discarded, urls...)
	return nil
}

func TestSubmitProductUploadsPendingAndMerges(t *testing.T) {
	up := &fakeUploader{urls: []string{"https://files.test/new.png"}}
	s := NewSubmitter(newValidator(t), up, nil)

	pendingFile := &multipart.FileHeader{Filename: "new.png"}
	f := validProduct()
	f.Slug = "ignored"
	f.Images = []ImageRef{Pending(pendingFile), Uploaded("https://files.test/a.png")}

	var got catalog.ProductInput
	out := s.SubmitProduct(context.Background(), i18n.English, f, func(_ context.Context, in catalog.ProductInput) catalog.Result {
		got = in
		return catalog.Result{Success: true, ID: 7}
	})

	assert.Equal(t, Outcome{Success: true, Close: true, ID: 7}, out)
	assert.Equal(t, 1, up.calls)
	assert.Equal(t, []*multipart.FileHeader{pendingFile}, up.got)
	assert.Equal(t, []string{"https://files.test/a.png", "https://files.test/new.png"}, got.Images)
	assert.Empty(t, up.discarded)
	assert.Equal(t, "green-tea", got.Slug)
	assert.Equal(t, "Green Tea", got.Name.Get(i18n.English))
	assert.Equal(t, "شاي أخضر", got.Name.Get(i18n.Arabic))
	assert.Empty(t, got.Description)
}

func TestSubmitProductWithoutPendingSkipsUpload(t *testing.T) {
	up := &fakeUploader{}
	s := NewSubmitter(newValidator(t), up, nil)

	out := s.SubmitProduct(context.Background(), i18n.English, validProduct(), func(context.Context, catalog.ProductInput) catalog.Result {
		return catalog.Result{Success: true, ID: 1}
	})
	assert.True(t, out.Close)
	assert.Zero(t, up.calls)
}

func TestSubmitProductStaysOpenOnFailure(t *testing.T) {
	s := NewSubmitter(newValidator(t), &fakeUploader{}, nil)

	out := s.SubmitProduct(context.Background(), i18n.English, validProduct(), func(context.Context, catalog.ProductInput) catalog.Result {
		return catalog.Result{Error: "A Product with this name already exists."}
	})
	assert.Equal(t, Outcome{Error: "A Product with this name already exists."}, out)

	out = s.SubmitProduct(context.Background(), i18n.English, validProduct(), func(context.Context, catalog.ProductInput) catalog.Result {
		return catalog.Result{}
	})
	assert.False(t, out.Close)
	assert.Equal(t, catalog.MsgGeneric, out.Error)
}

func TestSubmitProductFailedMutationDiscardsNewUploads(t *testing.T) {
	up := &fakeUploader{urls: []string{"https://files.test/new.png"}}
	s := NewSubmitter(newValidator(t), up, nil)

	f := validProduct()
	f.Images = []ImageRef{Uploaded("https://files.test/kept.png"), Pending(&multipart.FileHeader{Filename: "new.png"})}

	out := s.SubmitProduct(context.Background(), i18n.English, f, func(context.Context, catalog.ProductInput) catalog.Result {
		return catalog.Result{Error: "A Product with this name already exists."}
	})
	assert.False(t, out.Close)
	assert.Equal(t, []string{"https://files.test/new.png"}, up.discarded)
}

func TestSubmitProductUploadFailure(t *testing.T) {
	called := false
	mutate := func(context.Context, catalog.ProductInput) catalog.Result {
		called = true
		return catalog.Result{Success: true}
	}
	f := validProduct()
	f.Images = []ImageRef{Pending(&multipart.FileHeader{Filename: "x.png"})}

	s := NewSubmitter(newValidator(t), &fakeUploader{err: errors.New("timeout")}, nil)
	out := s.SubmitProduct(context.Background(), i18n.Arabic, f, mutate)
	assert.False(t, out.Close)
	assert.Equal(t, "فشل رفع الصور.", out.Error)
	assert.False(t, called)

	s = NewSubmitter(newValidator(t), &fakeUploader{err: uploads.ErrTooManyFiles}, nil)
	out = s.SubmitProduct(context.Background(), i18n.English, f, mutate)
	assert.Equal(t, uploads.ErrTooManyFiles.Error(), out.Error)
}

func TestSubmitInvalidFormDoesNotMutate(t *testing.T) {
	s := NewSubmitter(newValidator(t), &fakeUploader{}, nil)
	f := &CompanyForm{NameEN: "Acme"}

	out := s.SubmitCompany(context.Background(), i18n.English, f, func(context.Context, catalog.CompanyInput) catalog.Result {
		t.Fatal("mutation must not run")
		return catalog.Result{}
	})
	assert.False(t, out.Close)
	assert.Equal(t, "Please correct the highlighted fields.", out.Error)
	assert.Contains(t, out.FieldErrors, "name_ar")
}

func TestSubmitCompany(t *testing.T) {
	s := NewSubmitter(newValidator(t), &fakeUploader{}, nil)
	f := &CompanyForm{
		NameEN: "Acme", NameAR: "أكمي",
		DescriptionAR: "وصف",
		VideoURL:      "https://video.test/acme",
		ButtonTextEN:  "Shop", ButtonTextAR: "تسوق",
	}

	var got catalog.CompanyInput
	out := s.SubmitCompany(context.Background(), i18n.English, f, func(_ context.Context, in catalog.CompanyInput) catalog.Result {
		got = in
		return catalog.Result{Success: true, ID: 1}
	})
	require.True(t, out.Success)
	assert.Equal(t, "acme", got.Slug)
	assert.Equal(t, i18n.Text{i18n.Arabic: "وصف"}, got.Description)
	assert.Equal(t, "Shop", got.ButtonText.Get(i18n.English))
}
