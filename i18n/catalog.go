// Package i18n resolves descriptor keys and country codes to display text.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale must be present in every catalog set; it is the fallback for missing keys.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is an immutable string lookup bound to one display locale.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]struct{}
	regions display.Namer
}

// Load builds a catalog for locale from the embedded locale files.
func Load(locale string) (*Catalog, error) {
	return LoadFromFS(embeddedLocales, locale)
}

// LoadFromFS builds a catalog for locale from locales/*.yaml in fsys.
func LoadFromFS(fsys fs.FS, locale string) (*Catalog, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	builder := catalog.NewBuilder(catalog.Fallback(base))
	keys := make(map[string]struct{})
	hasBase := false

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", path, err)
		}
		fileTag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale file %s: invalid locale %q: %w", path, file.Locale, err)
		}
		if file.Locale == BaseLocale {
			hasBase = true
		}
		for key, value := range file.Messages {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("locale file %s: message key cannot be blank", path)
			}
			if err := builder.SetString(fileTag, key, value); err != nil {
				return nil, fmt.Errorf("locale file %s: set %q: %w", path, key, err)
			}
			keys[key] = struct{}{}
		}
	}
	if !hasBase {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	regions := display.Regions(tag)
	if regions == nil {
		regions = display.English.Regions()
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		keys:    keys,
		regions: regions,
	}, nil
}

// Lookup returns the display text for key, or key itself when no locale defines it.
func (c *Catalog) Lookup(key string) string {
	if _, ok := c.keys[key]; !ok {
		return key
	}
	return c.printer.Sprintf(key)
}

// CountryName resolves an ISO 3166 alpha-2 code. Unknown codes are returned unchanged.
func (c *Catalog) CountryName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := c.regions.Name(region); name != "" {
		return name
	}
	return code
}

// Locale reports the display locale of the catalog.
func (c *Catalog) Locale() string {
	return c.tag.String()
}
