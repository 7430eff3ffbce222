package compose

import (
	"errors"
	"strings"
	"testing"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

var allowed = map[string]struct{}{
	"title": {}, "tasks": {}, "summaryTime": {},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modules models.Modules
		wantErr string
	}{
		{"valid", models.Modules{simple("title", "{{title}}"), looped("summaryTime", "", "x", "")}, ""},
		{"empty array is allowed", models.Modules{}, ""},
		{"nil is not an array", nil, "array"},
		{"negative module index", models.Modules{{Index: -1, ModuleKey: "title", Items: []models.ModuleItem{{Kind: models.ItemKindBasic}}}}, "index"},
		{"blank module key", models.Modules{simple("  ", "x")}, "moduleKey"},
		{"no items", models.Modules{{ModuleKey: "title"}}, "at least one item"},
		{"unknown item type", models.Modules{{ModuleKey: "title", Items: []models.ModuleItem{{Kind: "repeat"}}}}, "item type"},
		{"case sensitive item type", models.Modules{{ModuleKey: "title", Items: []models.ModuleItem{{Kind: "Basic"}}}}, "item type"},
		{"negative item index", models.Modules{{ModuleKey: "title", Items: []models.ModuleItem{{Index: -2, Kind: models.ItemKindLoop}}}}, "item index"},
		{"key outside catalog", models.Modules{simple("title", "x"), simple("weather", "y")}, "weather"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.modules, allowed)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("error %v is not a validation error", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInvalidKeysSortedAndDistinct(t *testing.T) {
	modules := models.Modules{
		simple("zeta", ""), simple("title", ""), simple("alpha", ""), simple("zeta", ""),
	}
	got := InvalidKeys(modules, allowed)
	want := []string{"alpha", "zeta"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("InvalidKeys = %v, want %v", got, want)
	}
}

func TestCheckStructureIgnoresKeys(t *testing.T) {
	modules := models.Modules{simple("notInAnyCatalog", "x")}
	if err := CheckStructure(modules); err != nil {
		t.Errorf("CheckStructure: %v", err)
	}
	err := CheckKeys(modules, allowed)
	if err == nil || !strings.Contains(err.Error(), "notInAnyCatalog") {
		t.Errorf("CheckKeys: got %v", err)
	}
	if err := CheckStructure(nil); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("CheckStructure(nil): got %v", err)
	}
}
