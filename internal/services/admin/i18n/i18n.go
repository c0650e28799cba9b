package i18n

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/libraryadmin/internal/platform/i18n/catalog"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the operator's language preference.
	LangCookieName = "admin_lang"
)

var supportedTags = []language.Tag{
	language.English,
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for tag with the admin catalog loaded.
func Printer(tag language.Tag) *message.Printer {
	catalog.Default()
	return message.NewPrinter(tag)
}

// ResolveTag picks the language for r from the query param, the cookie, then
// Accept-Language. The bool reports whether the query param selected it and
// should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if r.URL != nil {
		if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
			if tag, ok := parseTag(value); ok {
				return tag, true
			}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[idx], false
			}
		}
	}
	return Default(), false
}

// SetLanguageCookie persists tag on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     routepath.Root,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func parseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	for _, tag := range supportedTags {
		if tag == parsed {
			return tag, true
		}
	}
	return language.Tag{}, false
}
