package advisor

import (
	"github.com/xeipuuv/gojsonschema"
)

const resolveSchema = `{
  "type": "object",
  "required": ["requirements"],
  "properties": {
    "requirements": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

const diagnoseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["root_cause"],
  "properties": {
    "root_cause": {"enum": ["self", "incompatibility"]},
    "package": {"type": "string"},
    "suggested_constraint": {"type": "string"}
  },
  "if": {"properties": {"root_cause": {"const": "incompatibility"}}},
  "then": {
    "required": ["package", "suggested_constraint"],
    "properties": {
      "package": {"minLength": 1},
      "suggested_constraint": {"minLength": 1}
    }
  }
}`

const versionsSchema = `{
  "type": "array",
  "items": {"type": "string", "minLength": 1}
}`

const downgradesSchema = `{
  "type": "object",
  "required": ["changes"],
  "properties": {
    "changes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["package", "version"],
        "properties": {
          "package": {"type": "string", "minLength": 1},
          "version": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var (
	resolvePayload    = mustSchema(resolveSchema)
	diagnosePayload   = mustSchema(diagnoseSchema)
	versionsPayload   = mustSchema(versionsSchema)
	downgradesPayload = mustSchema(downgradesSchema)
)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(err)
	}
	return schema
}
