// Package locale translates the picker's chrome using go-i18n catalogs
// embedded in the binary.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed catalog/*.toml
var catalogs embed.FS

// Message IDs.
const (
	SearchPlaceholder = "search_placeholder"
	NoResults         = "no_results"
	Empty             = "empty"
	Searching         = "searching"
	RemoteFailed      = "remote_failed"
	Reloaded          = "reloaded"
	VisibleCount      = "visible_count"
	SelectedCount     = "selected_count"
	Help              = "help"
	HelpMulti         = "help_multi"
	Copied            = "copied"
)

// Localizer resolves message IDs for one language preference.
type Localizer struct {
	loc *i18n.Localizer
	tag language.Tag
}

func bundle() (*i18n.Bundle, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	files, err := fs.Glob(catalogs, "catalog/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := b.LoadMessageFileFS(catalogs, f); err != nil {
			return nil, fmt.Errorf("loading catalog %s: %w", f, err)
		}
	}
	return b, nil
}

// New builds a localizer for lang, a BCP 47 tag such as "fr" or "en-GB".
// An empty lang falls back to $LANG, then English.
func New(lang string) (*Localizer, error) {
	b, err := bundle()
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = FromEnv()
	}
	matcher := language.NewMatcher(b.LanguageTags())
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	return &Localizer{
		loc: i18n.NewLocalizer(b, lang, language.English.String()),
		tag: language.Make(base.String()),
	}, nil
}

// FromEnv reads the language from LC_ALL, LC_MESSAGES or LANG.
func FromEnv() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" && v != "C" && v != "POSIX" {
			v, _, _ = strings.Cut(v, ".")
			return strings.ReplaceAll(v, "_", "-")
		}
	}
	return ""
}

// Tag returns the matched catalog language.
func (l *Localizer) Tag() language.Tag { return l.tag }

// T renders id with data. Unknown IDs render as the ID itself.
func (l *Localizer) T(id string, data map[string]any) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return s
}

// N renders a plural message for count. Count is also available to the
// template as .Count.
func (l *Localizer) N(id string, count int) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return id
	}
	return s
}
