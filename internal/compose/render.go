package compose

import (
	"strings"

	"minutebook/internal/models"
)

// Separator joins rendered modules in a preview.
const Separator = "\n\n"

// Render turns modules into flat preview text. A simple module contributes
// its single item's value; any other module contributes the value of its
// first loop item, and its basic items are dropped as bookends. Empty
// contributions are skipped. Render never modifies its argument.
func Render(modules models.Modules) string {
	parts := make([]string, 0, len(modules))
	for _, m := range modules {
		if v := renderModule(m); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, Separator)
}

func renderModule(m models.Module) string {
	if m.IsSimple() {
		return m.Items[0].Value
	}
	it, _ := m.LoopItem()
	return it.Value
}
