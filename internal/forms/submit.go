package forms

import (
	"context"
	"mime/multipart"

	"souq/internal/catalog"
	"souq/internal/i18n"
	"souq/internal/uploads"

	"go.uber.org/zap"
)

// Outcome tells the dialog what to do after a submit: close and reset on
// success, stay open showing Error (and FieldErrors) otherwise.
type Outcome struct {
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
	Close       bool        `json:"close"`
	FieldErrors FieldErrors `json:"field_errors,omitempty"`
	ID          int64       `json:"id,omitempty"`
}

// Uploader sends pending files to the file host and returns their URLs in
// order. Discard removes uploads that ended up unused.
type Uploader interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	Discard(ctx context.Context, urls []string) error
}

type (
	CompanyMutation func(ctx context.Context, in catalog.CompanyInput) catalog.Result
	ProductMutation func(ctx context.Context, in catalog.ProductInput) catalog.Result
)

type dialogText struct {
	invalid string
	upload  string
}

var messages = map[i18n.Locale]dialogText{
	i18n.English: {invalid: "Please correct the highlighted fields.", upload: "Failed to upload images."},
	i18n.Arabic:  {invalid: "يرجى تصحيح الحقول المحددة.", upload: "فشل رفع الصور."},
}

func message(l i18n.Locale) dialogText {
	if m, ok := messages[l]; ok {
		return m
	}
	return messages[i18n.Default]
}

type Submitter struct {
	validator *Validator
	uploader  Uploader
	logger    *zap.SugaredLogger
}

func NewSubmitter(v *Validator, up Uploader, logger *zap.SugaredLogger) *Submitter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Submitter{validator: v, uploader: up, logger: logger}
}

func (s *Submitter) check(form any, l i18n.Locale) (Outcome, bool) {
	fieldErrs, err := s.validator.Check(form, l)
	if err != nil {
		s.logger.Errorw("form validation failed", "err", err)
		return Outcome{Error: catalog.MsgGeneric}, false
	}
	if len(fieldErrs) > 0 {
		return Outcome{Error: message(l).invalid, FieldErrors: fieldErrs}, false
	}
	return Outcome{}, true
}

func fromResult(res catalog.Result) Outcome {
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = catalog.MsgGeneric
		}
		return Outcome{Error: msg}
	}
	return Outcome{Success: true, Close: true, ID: res.ID}
}

// SubmitCompany validates the dialog and runs mutate.
func (s *Submitter) SubmitCompany(ctx context.Context, l i18n.Locale, f *CompanyForm, mutate CompanyMutation) Outcome {
	f.Prepare()
	if out, ok := s.check(f, l); !ok {
		return out
	}
	return fromResult(mutate(ctx, f.Input()))
}

// SubmitProduct validates the dialog, uploads only the pending images,
// appends their URLs to the retained ones and runs mutate.
func (s *Submitter) SubmitProduct(ctx context.Context, l i18n.Locale, f *ProductForm, mutate ProductMutation) Outcome {
	f.Prepare()
	if out, ok := s.check(f, l); !ok {
		return out
	}

	retained, pending := Partition(f.Images)
	var uploaded []string
	if len(pending) > 0 {
		urls, err := s.uploader.Upload(ctx, pending)
		if err != nil {
			s.logger.Errorw("image upload failed", "op", "SubmitProduct", "files", len(pending), "err", err)
			msg := message(l).upload
			if uploads.IsRejected(err) {
				msg = err.Error()
			}
			return Outcome{Error: msg}
		}
		uploaded = urls
	}

	res := mutate(ctx, f.Input(Merge(retained, uploaded)))
	if !res.Success && len(uploaded) > 0 {
		if err := s.uploader.Discard(context.WithoutCancel(ctx), uploaded); err != nil {
			s.logger.Errorw("discard unused uploads failed", "op", "SubmitProduct", "urls", uploaded, "err", err)
		}
	}
	return fromResult(res)
}
