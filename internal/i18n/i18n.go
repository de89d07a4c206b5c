// Package i18n holds the user-facing messages of skillcast in English and
// Korean. Messages are looked up by key and formatted with fmt verbs.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/klauern/skillcast/internal/model"
)

// Default is the language used when none is configured.
const Default = "en"

var supported = []language.Tag{language.English, language.Korean}

var messages = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	for key, text := range english {
		_ = messages.SetString(language.English, key, text)
	}
	for key, text := range korean {
		_ = messages.SetString(language.Korean, key, text)
	}
}

// Printer formats messages in one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// Parse returns the language tag for lang. Only English and Korean are
// supported; regional variants such as "ko-KR" map to their base language.
func Parse(lang string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return language.Und, model.Errorf(model.KindInvalid, lang, "unsupported language (use en or ko)")
	}
	base, _ := tag.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			return t, nil
		}
	}
	return language.Und, model.Errorf(model.KindInvalid, lang, "unsupported language (use en or ko)")
}

// New returns a printer for lang, falling back to English for anything
// unsupported.
func New(lang string) *Printer {
	tag, err := Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(messages))}
}

// Lang returns the printer's language code.
func (p *Printer) Lang() string {
	base, _ := p.tag.Base()
	return base.String()
}

// T formats the message registered under key. Unknown keys are formatted
// as-is.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Keys returns every message key known in English.
func Keys() []string {
	keys := make([]string, 0, len(english))
	for k := range english {
		keys = append(keys, k)
	}
	return keys
}
