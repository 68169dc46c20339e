// Package i18n registers the advancement message catalog with
// golang.org/x/text/message and hands out printers for it.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every key must exist in.
const BaseLocale = "en-US"

// KeyHeroic is registered with plural forms, so it lives in code.
const KeyHeroic = "summary.heroic"

//go:embed locales/*/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	registerOnce sync.Once
	registerErr  error
	supported    []language.Tag
	matcher      language.Matcher
)

// Register loads the embedded catalogs. It is safe to call repeatedly.
func Register() error {
	registerOnce.Do(func() {
		registerErr = register(localesFS)
	})
	return registerErr
}

func register(fsys fs.FS) error {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	seen := map[string]bool{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse catalog %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", file.Locale, err)
		}
		for key, value := range file.Messages {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s/%s: %w", file.Locale, key, err)
			}
		}
		if !seen[tag.String()] {
			seen[tag.String()] = true
			supported = append(supported, tag)
		}
	}

	base := language.MustParse(BaseLocale)
	if !seen[base.String()] {
		return fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	err = message.Set(base, KeyHeroic, plural.Selectf(1, "%d",
		plural.One, "Gained %d heroic ability",
		plural.Other, "Gained %d heroic abilities",
	))
	if err != nil {
		return fmt.Errorf("register %s: %w", KeyHeroic, err)
	}

	// Base locale first so the matcher falls back to it.
	sort.SliceStable(supported, func(i, j int) bool { return supported[i] == base })
	matcher = language.NewMatcher(supported)
	return nil
}

// Printer returns a printer for the closest supported locale to lang.
func Printer(lang string) *message.Printer {
	if err := Register(); err != nil {
		return message.NewPrinter(language.MustParse(BaseLocale))
	}
	_, index := language.MatchStrings(matcher, lang)
	resolved := supported[index]
	return message.NewPrinter(resolved)
}
