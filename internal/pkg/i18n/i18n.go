package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLocale  = "pt-BR"
	FallbackLocale = "en"
	labelsFile     = "labels.yaml"
)

//go:embed locales
var embedded embed.FS

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
	once    sync.Once
)

// LoadTranslations reads <locale>/labels.yaml for every locale directory in
// fsys, replacing any locale already loaded.
func LoadTranslations(fsys fs.FS) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(locale, labelsFile)

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var config struct {
			Labels Translations `yaml:"LABELS"`
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = config.Labels
	}

	return nil
}

// LoadDefaults loads the embedded locales, then overrides them from dir when
// it is not empty.
func LoadDefaults(dir string) error {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return err
	}
	if err := LoadTranslations(sub); err != nil {
		return err
	}
	if dir == "" {
		return nil
	}
	return LoadTranslations(os.DirFS(dir))
}

func ensureLoaded() {
	once.Do(func() {
		mu.RLock()
		empty := len(locales) == 0
		mu.RUnlock()
		if empty {
			_ = LoadDefaults("")
		}
	})
}

func Translate(locale, key string) string {
	ensureLoaded()

	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != FallbackLocale {
		if trans, ok := locales[FallbackLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// T translates in the default locale.
func T(key string) string {
	return Translate(DefaultLocale, key)
}
