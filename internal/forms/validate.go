package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"souq/internal/i18n"
	"souq/internal/slug"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ar_translations "github.com/go-playground/validator/v10/translations/ar"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a form field (its JSON name) to a message in the
// submitter's locale.
type FieldErrors map[string]string

var priceFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidPrice accepts a positive amount with at most two decimals.
func ValidPrice(s string) bool {
	if !priceFormat.MatchString(s) {
		return false
	}
	d, err := decimal.NewFromString(s)
	return err == nil && d.GreaterThan(decimal.Zero)
}

var customMessages = map[string]map[i18n.Locale]string{
	"price": {
		i18n.English: "{0} must be a positive amount with at most two decimals",
		i18n.Arabic:  "يجب أن يكون {0} مبلغًا موجبًا بخانتين عشريتين كحد أقصى",
	},
	"slug": {
		i18n.English: "{0} may only contain lowercase letters, digits and hyphens",
		i18n.Arabic:  "يجب أن يحتوي {0} على أحرف لاتينية صغيرة وأرقام وشرطات فقط",
	},
}

type Validator struct {
	validate    *validator.Validate
	translators map[i18n.Locale]ut.Translator
}

func NewValidator() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return ValidPrice(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ar.New())

	enTrans, _ := uni.GetTranslator("en")
	arTrans, _ := uni.GetTranslator("ar")
	if err := en_translations.RegisterDefaultTranslations(v, enTrans); err != nil {
		return nil, err
	}
	if err := ar_translations.RegisterDefaultTranslations(v, arTrans); err != nil {
		return nil, err
	}

	translators := map[i18n.Locale]ut.Translator{i18n.English: enTrans, i18n.Arabic: arTrans}
	for tag, byLocale := range customMessages {
		for l, msg := range byLocale {
			if err := v.RegisterTranslation(tag, translators[l], registerMessage(tag, msg), translateField); err != nil {
				return nil, err
			}
		}
	}

	return &Validator{validate: v, translators: translators}, nil
}

func registerMessage(tag, msg string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
}

func translateField(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

// Check validates form and returns its field errors in locale l, or nil.
// Errors that are not about a field are returned as is.
func (v *Validator) Check(form any, l i18n.Locale) (FieldErrors, error) {
	err := v.validate.Struct(form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	trans, ok := v.translators[l]
	if !ok {
		trans = v.translators[i18n.Default]
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fe.Translate(trans)
		}
	}
	return out, nil
}
