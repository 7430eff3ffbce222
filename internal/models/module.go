// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ItemKind distinguishes literal items from repeat blocks inside a module.
type ItemKind string

const (
	ItemKindBasic ItemKind = "basic"
	ItemKindLoop  ItemKind = "loop"
)

// Valid reports whether k is one of the known item kinds.
func (k ItemKind) Valid() bool {
	return k == ItemKindBasic || k == ItemKindLoop
}

// ModuleItem is the leaf content unit of a module. Value is opaque template
// text; placeholder tokens like {{summary}} are not interpreted here.
type ModuleItem struct {
	Index int      `json:"index" yaml:"index"`
	Kind  ItemKind `json:"type" yaml:"type"`
	Value string   `json:"value" yaml:"value"`
}

// Module is one named, ordered content block of a template.
type Module struct {
	Index       int          `json:"index" yaml:"index"`
	ModuleKey   string       `json:"moduleKey" yaml:"moduleKey"`
	DisplayName string       `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Items       []ModuleItem `json:"items" yaml:"items"`
}

// IsSimple returns true when the module holds exactly one basic item.
// Anything else is treated as a loop-bearing module.
func (m Module) IsSimple() bool {
	return len(m.Items) == 1 && m.Items[0].Kind == ItemKindBasic
}

// LoopItem returns the first item of kind loop, if any.
func (m Module) LoopItem() (ModuleItem, bool) {
	for _, it := range m.Items {
		if it.Kind == ItemKindLoop {
			return it, true
		}
	}
	return ModuleItem{}, false
}

// Modules is an ordered module array. It is stored as JSONB.
type Modules []Module

// Keys returns the module keys in order.
func (ms Modules) Keys() []string {
	keys := make([]string, 0, len(ms))
	for _, m := range ms {
		keys = append(keys, m.ModuleKey)
	}
	return keys
}

// Clone returns a deep copy so callers can hand modules around without
// sharing item slices.
func (ms Modules) Clone() Modules {
	if ms == nil {
		return nil
	}
	out := make(Modules, len(ms))
	for i, m := range ms {
		out[i] = m
		out[i].Items = append([]ModuleItem(nil), m.Items...)
	}
	return out
}

// Value implements driver.Valuer.
func (ms Modules) Value() (driver.Value, error) {
	if ms == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(ms)
	if err != nil {
		return nil, fmt.Errorf("marshal modules: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (ms *Modules) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*ms = Modules{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan modules: unsupported type %T", src)
	}
	var out Modules
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan modules: %w", err)
	}
	if out == nil {
		out = Modules{}
	}
	*ms = out
	return nil
}
