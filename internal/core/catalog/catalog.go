// SPDX-License-Identifier: Apache-2.0

// Package catalog loads configuration item catalogs from YAML or JSON documents.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/log"
	"github.com/kusari-oss/imgquest/internal/core/models"
)

//go:embed catalogs/*.yml
var embeddedFiles embed.FS

// DefaultCatalogFile is the embedded catalog used when no path is configured.
const DefaultCatalogFile = "catalogs/fi_core.yml"

// itemDoc decodes a catalog entry with beginner_mode defaulting to true.
type itemDoc models.ConfigItem

func (d *itemDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain models.ConfigItem
	raw := plain{ModeVisible: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*d = itemDoc(raw)
	return nil
}

func (d *itemDoc) UnmarshalJSON(data []byte) error {
	type plain models.ConfigItem
	raw := plain{ModeVisible: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = itemDoc(raw)
	return nil
}

// Loader reads catalogs and reports skipped entries through its logger.
type Loader struct {
	logger *log.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{logger: logger}
}

// Load reads the catalog at path, or the embedded catalog when path is empty.
func (l *Loader) Load(path string) (models.Catalog, error) {
	if path == "" {
		return l.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to read catalog %s", path), err).
			WithSuggestion("Check catalog_path in the config file or the --catalog flag")
	}
	if info.IsDir() {
		return l.loadDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to read catalog %s", path), err)
	}

	cat, err := l.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to parse catalog %s", path), err)
	}

	l.logger.Info("loaded catalog", "path", path, "items", len(cat))
	return cat, nil
}

// loadDir merges every YAML or JSON file in dir in name order. A later file
// replaces items of an earlier one with the same id.
func (l *Loader) loadDir(dir string) (models.Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to read catalog directory %s", dir), err)
	}

	cat := make(models.Catalog)
	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !format.IsYAMLFile(name) && strings.ToLower(filepath.Ext(name)) != ".json" {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to read catalog %s", path), err)
		}
		part, err := l.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogLoad, fmt.Sprintf("failed to parse catalog %s", path), err)
		}
		for _, id := range part.IDs() {
			if _, dup := cat[id]; dup {
				l.logger.Warn("catalog item redefined, later file wins", "id", id, "file", name)
			}
		}
		Upsert(cat, mapValues(part)...)
		files++
	}

	if files == 0 {
		return nil, errors.New(errors.ErrCodeCatalogLoad, fmt.Sprintf("no catalog files found in %s", dir)).
			WithSuggestion("Put one or more .yaml files with a list of items in the directory")
	}
	l.logger.Info("loaded catalog directory", "path", dir, "files", files, "items", len(cat))
	return cat, nil
}

func mapValues(cat models.Catalog) []models.ConfigItem {
	items := make([]models.ConfigItem, 0, len(cat))
	for _, id := range cat.IDs() {
		items = append(items, cat[id])
	}
	return items
}

// WriteDefault copies the embedded catalog to path so it can be customized.
// An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	data, err := embeddedFiles.ReadFile(DefaultCatalogFile)
	if err != nil {
		return fmt.Errorf("error reading embedded catalog: %w", err)
	}
	return format.WriteBytes(path, data)
}

// Default returns the embedded catalog.
func (l *Loader) Default() (models.Catalog, error) {
	data, err := embeddedFiles.ReadFile(DefaultCatalogFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, "failed to read embedded catalog", err)
	}
	cat, err := l.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, "failed to parse embedded catalog", err)
	}
	return cat, nil
}

// Parse decodes a list of items. Entries without an id are skipped; a later
// entry with a repeated id replaces the earlier one.
func (l *Loader) Parse(data []byte) (models.Catalog, error) {
	var docs []itemDoc
	if err := format.ParseData(data, &docs); err != nil {
		return nil, fmt.Errorf("invalid catalog format, expected a list of items: %w", err)
	}

	cat := make(models.Catalog, len(docs))
	for i, doc := range docs {
		item := models.ConfigItem(doc)
		if item.ID == "" {
			l.logger.Warn("skipping catalog item without id", "index", i, "title", item.Title)
			continue
		}
		if _, dup := cat[item.ID]; dup {
			l.logger.Warn("duplicate catalog item id, later entry wins", "id", item.ID)
		}
		Upsert(cat, item)
	}
	return cat, nil
}

// Upsert inserts or replaces items by id and returns how many were written.
func Upsert(cat models.Catalog, items ...models.ConfigItem) int {
	n := 0
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		cat[item.ID] = item
		n++
	}
	return n
}

// Stats summarizes a catalog.
type Stats struct {
	Total      int            `json:"total" yaml:"total"`
	ByPriority map[string]int `json:"by_priority" yaml:"by_priority"`
	IDs        []string       `json:"ids" yaml:"ids"`
}

// ComputeStats counts items per effective priority.
func ComputeStats(cat models.Catalog) Stats {
	stats := Stats{
		Total:      len(cat),
		ByPriority: make(map[string]int),
		IDs:        cat.IDs(),
	}
	for _, item := range cat {
		stats.ByPriority[string(item.Priority.Effective())]++
	}
	return stats
}

// PriorityKeys returns the keys of ByPriority in rank order.
func (s Stats) PriorityKeys() []string {
	keys := make([]string, 0, len(s.ByPriority))
	for k := range s.ByPriority {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := models.Priority(keys[i]).Rank(), models.Priority(keys[j]).Rank()
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
