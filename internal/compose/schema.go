package compose

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

// modulesSchema describes the wire shape of a module array.
const modulesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["index", "moduleKey", "items"],
    "properties": {
      "index": {"type": "integer", "minimum": 0},
      "moduleKey": {"type": "string", "minLength": 1},
      "displayName": {"type": "string"},
      "items": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["index", "type", "value"],
          "properties": {
            "index": {"type": "integer", "minimum": 0},
            "type": {"type": "string", "enum": ["basic", "loop"]},
            "value": {"type": "string"}
          }
        }
      }
    }
  }
}`

var compiledSchema = mustCompile(modulesSchema)

func mustCompile(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("compose: invalid modules schema: " + err.Error())
	}
	return s
}

// DecodeModules checks raw JSON against the module array schema and decodes
// it. The first schema violation is returned as a validation error.
func DecodeModules(raw []byte) (models.Modules, error) {
	if len(raw) == 0 {
		return nil, apperr.Validation("template must be an array of modules", "body is empty")
	}

	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperr.Validation("template is not valid JSON", err.Error())
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, apperr.Validation("template does not match the module schema", first.String())
	}

	var modules models.Modules
	if err := json.Unmarshal(raw, &modules); err != nil {
		return nil, apperr.Validation("template is not valid JSON", err.Error())
	}
	if modules == nil {
		modules = models.Modules{}
	}
	return modules, nil
}
