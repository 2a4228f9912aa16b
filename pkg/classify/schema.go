package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Output contracts for the three staged calls plus the combined single-call
// variant. Each response from the model is validated against its declared
// schema before being trusted; a schema-violating response takes the same
// fallback path as a transport error.

const categorySchemaJSON = `{
	"type": "object",
	"properties": {
		"category": {
			"type": "string",
			"description": "Category of the message",
			"enum": ["Love", "Grievance", "Order Information", "Product Information", "Business Queries", "Hiring", "Others"]
		}
	},
	"required": ["category"],
	"additionalProperties": false
}`

const confidenceSchemaJSON = `{
	"type": "object",
	"properties": {
		"confidence": {
			"type": "number",
			"description": "Confidence score of the category in percentage (0-100)"
		},
		"reasoning": {
			"type": "string",
			"description": "Short explanation of the score"
		}
	},
	"required": ["confidence", "reasoning"],
	"additionalProperties": false
}`

const responseSchemaJSON = `{
	"type": "object",
	"properties": {
		"response": {
			"type": "string",
			"description": "Suggested reply to the customer"
		},
		"action": {
			"type": "string",
			"description": "Handling channel for the message",
			"enum": ["Email", "DM/Comment", "CRM Ticket"]
		}
	},
	"required": ["response", "action"],
	"additionalProperties": false
}`

const combinedSchemaJSON = `{
	"type": "object",
	"properties": {
		"category": {
			"type": "string",
			"description": "Category of the message",
			"enum": ["Love", "Grievance", "Order Information", "Fact", "Business Queries", "Hiring", "Others", "Product Information"]
		},
		"confidence": {
			"type": "number",
			"description": "Confidence score of the category in percentage (0-100)"
		},
		"actionableText": {
			"type": "string",
			"description": "Brief suggestion on how to respond"
		}
	},
	"required": ["category", "confidence", "actionableText"],
	"additionalProperties": false
}`

type outputSchema struct {
	name     string
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

func mustCompileSchema(name, raw string) outputSchema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name+".json", strings.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("classify: invalid %s schema: %v", name, err))
	}
	return outputSchema{
		name:     name,
		raw:      json.RawMessage(raw),
		compiled: compiler.MustCompile(name + ".json"),
	}
}

var (
	categorySchema   = mustCompileSchema("category", categorySchemaJSON)
	confidenceSchema = mustCompileSchema("confidence", confidenceSchemaJSON)
	responseSchema   = mustCompileSchema("response", responseSchemaJSON)
	combinedSchema   = mustCompileSchema("classification", combinedSchemaJSON)
)

// decodeValidated validates raw output against the schema and unmarshals it
// into out. A structurally invalid document is an error, never silently
// propagated data.
func decodeValidated(s outputSchema, raw json.RawMessage, out any) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s output is not valid JSON: %w", s.name, err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("%s output violates schema: %w", s.name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s output: %w", s.name, err)
	}
	return nil
}
