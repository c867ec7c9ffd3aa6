// Package i18n provides the localized literals of the command line output.
//
// Two dictionaries are built in, EN_en and PL_pl. A file lang/<ID>.yaml
// mapping keys to text overrides single literals. Keys missing from a
// dictionary fall back to English.
package i18n

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = "EN_en"

// OverrideDir is where user translation files are looked up.
const OverrideDir = "lang"

type builtin struct {
	tag  language.Tag
	dict map[Key]string
}

var builtins = map[string]builtin{
	"EN_en": {tag: language.English, dict: english},
	"PL_pl": {tag: language.Polish, dict: polish},
}

// Supported returns the language ids in sorted order.
func Supported() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsSupported reports whether id names a built-in dictionary.
func IsSupported(id string) bool {
	_, ok := builtins[id]
	return ok
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Polish})

// Match picks the dictionary closest to a POSIX locale such as
// "pl_PL.UTF-8". Unknown or empty locales give DefaultLanguage.
func Match(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return DefaultLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx != 1 {
		return DefaultLanguage
	}
	return "PL_pl"
}

// Dictionary resolves keys to text in one language.
type Dictionary struct {
	id      string
	printer *message.Printer
	known   map[Key]bool
}

// Load builds the dictionary id, applying overrides from dir/<id>.yaml when
// that file exists. An empty dir disables overrides.
func Load(id, dir string) (*Dictionary, error) {
	base, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q (expected one of %s)", id, strings.Join(Supported(), ", "))
	}

	overrides, err := readOverrides(id, dir)
	if err != nil {
		return nil, err
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	known := make(map[Key]bool, len(english))
	set := func(key Key, text string) error {
		known[key] = true
		return b.SetString(base.tag, string(key), text)
	}
	for key, text := range english {
		if local, ok := base.dict[key]; ok {
			text = local
		}
		if err := set(key, text); err != nil {
			return nil, fmt.Errorf("building %s catalog: %w", id, err)
		}
	}
	for key, text := range overrides {
		if err := set(key, text); err != nil {
			return nil, fmt.Errorf("building %s catalog: %w", id, err)
		}
	}

	return &Dictionary{
		id:      id,
		printer: message.NewPrinter(base.tag, message.Catalog(b)),
		known:   known,
	}, nil
}

// MustLoad returns the built-in dictionary id without overrides, or English
// when id is unsupported.
func MustLoad(id string) *Dictionary {
	d, err := Load(id, "")
	if err != nil {
		d, err = Load(DefaultLanguage, "")
		if err != nil {
			panic(err)
		}
	}
	return d
}

func readOverrides(id, dir string) (map[Key]string, error) {
	if dir == "" {
		return nil, nil
	}
	path := filepath.Join(dir, id+".yaml")
	// #nosec G304 -- translation files live in the user's lang directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading translation file: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: invalid translation file: %w", path, err)
	}
	out := make(map[Key]string, len(raw))
	for k, v := range raw {
		out[Key(k)] = v
	}
	return out, nil
}

// ID returns the dictionary's language id.
func (d *Dictionary) ID() string { return d.id }

// T returns the literal for key formatted with args.
func (d *Dictionary) T(key Key, args ...any) string {
	if !d.known[key] {
		return NoTranslation
	}
	return d.printer.Sprintf(string(key), args...)
}
