// Package catalog holds the built-in module catalog that a workspace starts
// from when it has never saved one of its own.
package catalog

import (
	"strings"

	"minutebook/internal/models"
)

// basicModule is a catalog entry rendered from a single placeholder.
type basicModule struct {
	key         string
	displayName string
}

// basicModules are emitted in this order, ahead of the loop modules.
var basicModules = []basicModule{
	{"title", "제목"},
	{"tasks", "할 일"},
	{"topics", "주제"},
	{"keywords", "키워드"},
	{"speakerInfo", "참석자"},
	{"summary", "전체 요약"},
	{"issues", "이슈"},
}

// loopModules repeat their body once per discussed topic.
var loopModules = []struct {
	key         string
	displayName string
	keys        []string
}{
	{"summaryTime", "주제별 상세 요약", []string{"st_topic", "st_summary", "st_issues", "st_tasks"}},
}

// Placeholder wraps a key in the double-brace token used by template text.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// DefaultModules returns a fresh copy of the sample catalog. The result is
// the same on every call and is safe for the caller to modify.
func DefaultModules() models.Modules {
	modules := make(models.Modules, 0, len(basicModules)+len(loopModules))
	idx := 0

	for _, b := range basicModules {
		modules = append(modules, models.Module{
			Index:       idx,
			ModuleKey:   b.key,
			DisplayName: b.displayName,
			Items: []models.ModuleItem{
				{Index: 0, Kind: models.ItemKindBasic, Value: Placeholder(b.key)},
			},
		})
		idx++
	}

	for _, l := range loopModules {
		placeholders := make([]string, len(l.keys))
		for i, k := range l.keys {
			placeholders[i] = Placeholder(k)
		}
		modules = append(modules, models.Module{
			Index:       idx,
			ModuleKey:   l.key,
			DisplayName: l.displayName,
			Items: []models.ModuleItem{
				{Index: 0, Kind: models.ItemKindBasic, Value: ""},
				{Index: 1, Kind: models.ItemKindLoop, Value: strings.Join(placeholders, "\n")},
				{Index: 2, Kind: models.ItemKindBasic, Value: ""},
			},
		})
		idx++
	}

	return modules
}

// DefaultKeys returns the module keys of the sample catalog as a set.
func DefaultKeys() map[string]struct{} {
	c := models.ModuleCatalog{Modules: DefaultModules()}
	return c.KeySet()
}
