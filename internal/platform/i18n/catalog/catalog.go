// Package catalog loads translated UI strings from embedded YAML files and
// registers them with golang.org/x/text/message.
//
// Files live at locales/<locale>/<namespace>.yaml. A key may only be defined
// once per locale, across all namespaces.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type localeCatalog struct {
	namespaces map[string]struct{}
	messages   map[string]string
}

// Bundle holds every locale catalog loaded from one filesystem.
type Bundle struct {
	locales map[string]*localeCatalog
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

// Default returns the embedded bundle. Its messages are registered with
// x/text on package init.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads catalogs from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*localeCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale != wantLocale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, wantLocale)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if namespace != wantNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, namespace, wantNamespace)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}

	catalog, ok := b.locales[locale]
	if !ok {
		catalog = &localeCatalog{namespaces: map[string]struct{}{}, messages: map[string]string{}}
		b.locales[locale] = catalog
	}
	if _, exists := catalog.namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for %s", p, namespace, locale)
	}
	catalog.namespaces[namespace] = struct{}{}

	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, exists := catalog.messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %s", p, key, locale)
		}
		catalog.messages[key] = value
	}
	return nil
}

// Register installs every message with x/text/message under its locale tag
// and the tag's base language.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		messages := b.locales[locale].messages
		for key, value := range messages {
			for _, registerTag := range tags {
				if err := message.SetString(registerTag, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", registerTag, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the bundle defines locale.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the defined locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys returns the sorted message keys defined for locale.
func (b *Bundle) Keys(locale string) []string {
	if b == nil {
		return nil
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(catalog.messages))
	for key := range catalog.messages {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Message returns one message, falling back to BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if catalog, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if value, exists := catalog.messages[key]; exists {
			return value, true
		}
	}
	value, ok := b.locales[BaseLocale].messages[key]
	return value, ok
}

func mustLoadAndRegisterEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}
