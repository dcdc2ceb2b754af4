package generation

import "github.com/santhosh-tekuri/jsonschema/v5"

const questionSchemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["text", "options", "correctIndex"],
  "properties": {
    "text": {"type": "string", "minLength": 1},
    "options": {
      "type": "array",
      "minItems": 2,
      "items": {"type": "string"}
    },
    "correctIndex": {"type": "integer", "minimum": 0}
  }
}`

// questionSchema is only consulted in strict mode.
var questionSchema = jsonschema.MustCompileString("question.schema.json", questionSchemaSource)
