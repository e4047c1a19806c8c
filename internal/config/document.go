package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaResource = "superconfig.schema.json"

//go:embed superconfig.schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	errSchema      error
)

// documentSchema compiles the embedded JSON schema once
func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			errSchema = fmt.Errorf("failed to parse superconfig schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaResource, doc); err != nil {
			errSchema = fmt.Errorf("failed to add superconfig schema: %w", err)
			return
		}

		compiledSchema, errSchema = compiler.Compile(schemaResource)
	})
	return compiledSchema, errSchema
}

// Decode parses a superconfig document and validates it against the schema
func Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("config document is empty")
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("config document exceeds maximum size of %d bytes", MaxDocumentSize)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	schema, err := documentSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if doc.Components == nil {
		doc.Components = make(map[string]map[string]*Component)
	}

	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &doc, nil
}

// Encode serializes a document to YAML. Map keys are written in sorted order.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal config document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config document: %w", err)
	}

	return buf.Bytes(), nil
}
