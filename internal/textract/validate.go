package textract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema guards decoding: a stored result must at least carry a Blocks
// array of objects with string BlockTypes before the extractor sees it.
const resultSchema = `{
	"type": "object",
	"required": ["Blocks"],
	"properties": {
		"JobStatus": {"type": "string"},
		"Blocks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["BlockType"],
				"properties": {
					"BlockType": {"type": "string"},
					"Page": {"type": "integer", "minimum": 0},
					"Text": {"type": "string"}
				}
			}
		}
	}
}`

var compiledResultSchema = mustCompileSchema(resultSchema)

func mustCompileSchema(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", strings.NewReader(src)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("result.json")
}

// DecodeResult validates and decodes a stored Textract result payload.
func DecodeResult(data []byte) (*Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	if err := compiledResultSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("result does not match schema: %w", err)
	}

	var res Result
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}
