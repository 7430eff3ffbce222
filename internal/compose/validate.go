package compose

import (
	"fmt"
	"sort"
	"strings"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

// Validate checks modules against the structural rules and against the set
// of module keys the workspace catalog allows. It stops at the first
// structural problem; unknown keys are reported together.
func Validate(modules models.Modules, allowed map[string]struct{}) error {
	if err := CheckStructure(modules); err != nil {
		return err
	}
	return CheckKeys(modules, allowed)
}

// CheckStructure applies the rules that need no catalog: the array must be
// present and every module and item well formed.
func CheckStructure(modules models.Modules) error {
	if modules == nil {
		return apperr.Validation("template must be an array of modules", "got null")
	}
	for i, m := range modules {
		if err := validateModule(i, m); err != nil {
			return err
		}
	}
	return nil
}

// CheckKeys rejects module keys outside allowed, listing all of them.
func CheckKeys(modules models.Modules, allowed map[string]struct{}) error {
	if invalid := InvalidKeys(modules, allowed); len(invalid) > 0 {
		return apperr.Validation(
			"template uses module keys outside the workspace catalog",
			"invalidKeys: "+strings.Join(invalid, ", "),
		)
	}
	return nil
}

// InvalidKeys returns the sorted, distinct module keys not present in allowed.
func InvalidKeys(modules models.Modules, allowed map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var invalid []string
	for _, m := range modules {
		if _, ok := allowed[m.ModuleKey]; ok {
			continue
		}
		if _, dup := seen[m.ModuleKey]; dup {
			continue
		}
		seen[m.ModuleKey] = struct{}{}
		invalid = append(invalid, m.ModuleKey)
	}
	sort.Strings(invalid)
	return invalid
}

func validateModule(i int, m models.Module) error {
	field := fmt.Sprintf("template[%d]", i)
	switch {
	case m.Index < 0:
		return apperr.Validation("module index must not be negative", field+".index")
	case strings.TrimSpace(m.ModuleKey) == "":
		return apperr.Validation("moduleKey is required", field+".moduleKey")
	case len(m.Items) == 0:
		return apperr.Validation("module must have at least one item", field+".items")
	}

	for j, it := range m.Items {
		itemField := fmt.Sprintf("%s.items[%d]", field, j)
		if !it.Kind.Valid() {
			return apperr.Validation(
				fmt.Sprintf("item type must be %q or %q", models.ItemKindBasic, models.ItemKindLoop),
				fmt.Sprintf("%s.type: %q", itemField, it.Kind),
			)
		}
		if it.Index < 0 {
			return apperr.Validation("item index must not be negative", itemField+".index")
		}
	}
	return nil
}
