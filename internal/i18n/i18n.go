package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"

	Default = English
)

// Supported lists the locales the storefront is served in, default first.
var Supported = []Locale{English, Arabic}

// Parse returns the locale for a path segment or query value.
func Parse(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, sup := range Supported {
		if l == sup {
			return l, true
		}
	}
	return "", false
}

// Dir is the text direction used when rendering the locale.
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string { return string(l) }

// Text holds one display string per locale code.
type Text map[Locale]string

// Get returns the string for l, falling back to the default locale and then
// to the empty string.
func (t Text) Get(l Locale) string {
	if t == nil {
		return ""
	}
	if v, ok := t[l]; ok && v != "" {
		return v
	}
	return t[Default]
}

// Complete reports whether every supported locale carries a non-blank value.
func (t Text) Complete() bool {
	for _, l := range Supported {
		if strings.TrimSpace(t[l]) == "" {
			return false
		}
	}
	return true
}

// Values returns the non-empty strings in Supported order.
func (t Text) Values() []string {
	out := make([]string, 0, len(t))
	for _, l := range Supported {
		if v := t[l]; v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("i18n: cannot scan %T into Text", src)
	}
}

// Field reads the <field>_<locale> naming convention on a flat set of values,
// returning "" when the key is absent.
func Field(values map[string]string, field string, l Locale) string {
	return values[field+"_"+string(l)]
}

// FieldText collects every supported locale of field into a Text. Locales
// that are absent are left out.
func FieldText(values map[string]string, field string) Text {
	t := Text{}
	for _, l := range Supported {
		if v, ok := values[field+"_"+string(l)]; ok {
			t[l] = v
		}
	}
	return t
}

// Flatten is the inverse of FieldText.
func Flatten(t Text, field string, into map[string]string) {
	for _, l := range Supported {
		into[field+"_"+string(l)] = t[l]
	}
}

var localePrefix = regexp.MustCompile(`^/(en|ar)(/|$)`)

// SwitchPath rewrites the leading locale segment of path to l. Paths without
// a locale prefix get one.
func SwitchPath(path string, l Locale) string {
	rest := localePrefix.ReplaceAllString(path, "$2")
	if rest == "" || rest == "/" {
		return "/" + string(l)
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return "/" + string(l) + rest
}

// Alternate returns the other locale in a two-locale deployment.
func (l Locale) Alternate() Locale {
	if l == Arabic {
		return English
	}
	return Arabic
}
