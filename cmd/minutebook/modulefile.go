package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"minutebook/internal/compose"
	"minutebook/internal/models"
)

// readModules loads a module array from a YAML or JSON file ("-" reads
// stdin as YAML). YAML is converted to JSON so both formats pass the same
// schema check the API applies.
func readModules(path string, stdin io.Reader) (models.Modules, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read modules: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return compose.DecodeModules(raw)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return compose.DecodeModules(asJSON)
}

// writeModulesYAML prints modules in the same layout readModules accepts.
func writeModulesYAML(w io.Writer, modules models.Modules) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(modules); err != nil {
		return err
	}
	return enc.Close()
}
