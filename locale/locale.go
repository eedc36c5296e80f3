// Package locale resolves user-visible text. Game code passes message
// keys and params around and only renders them at the user boundary, so
// core entities never store resolved strings.
package locale

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/James-Trimble/PlayPalace11/logger"
)

const defaultLocale = "en"

// Catalog holds per-locale message tables loaded from YAML files
// (en.yaml, pt.yaml, ...). Lookups fall back to the default locale and
// finally to the key itself, so a missing translation never breaks play.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string // locale -> key -> template
}

// NewCatalog returns an empty catalog. Useful in tests where resolved
// text does not matter; Get falls back to the key.
func NewCatalog() *Catalog {
	return &Catalog{messages: make(map[string]map[string]string)}
}

// LoadDir loads every <locale>.yaml file in dir. Locales that fail to
// parse are logged and skipped.
func LoadDir(dir string) *Catalog {
	c := NewCatalog()
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		logger.Log.Warnf("Failed to scan locales dir %s: %v", dir, err)
		return c
	}
	for _, path := range matches {
		loc := strings.TrimSuffix(filepath.Base(path), ".yaml")
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			logger.Log.Warnf("Failed to load locale %s: %v", loc, err)
			continue
		}
		table := make(map[string]string)
		for _, key := range v.AllKeys() {
			table[key] = v.GetString(key)
		}
		c.mu.Lock()
		c.messages[loc] = table
		c.mu.Unlock()
	}
	return c
}

// AddMessages merges a message table for a locale. Exposed for tests.
func (c *Catalog) AddMessages(loc string, table map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.messages[loc]
	if !ok {
		existing = make(map[string]string)
		c.messages[loc] = existing
	}
	for k, v := range table {
		existing[k] = v
	}
}

// Locales lists every loaded locale, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for loc := range c.messages {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Get resolves key for loc, substituting {param} placeholders.
func (c *Catalog) Get(loc, key string, params map[string]any) string {
	c.mu.RLock()
	template, ok := c.messages[loc][key]
	if !ok {
		template, ok = c.messages[defaultLocale][key]
	}
	c.mu.RUnlock()
	if !ok {
		template = key
	}
	for name, value := range params {
		template = strings.ReplaceAll(template, "{"+name+"}", fmt.Sprint(value))
	}
	return template
}

// FormatListAnd joins items the way the locale reads a list aloud:
// "a, b and c".
func (c *Catalog) FormatListAnd(loc string, items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	and := c.Get(loc, "list-and", nil)
	if and == "list-and" {
		and = "and"
	}
	head := strings.Join(items[:len(items)-1], ", ")
	return head + " " + and + " " + items[len(items)-1]
}
