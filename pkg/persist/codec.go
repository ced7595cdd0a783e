// Package persist stores small state files through pluggable codecs.
package persist

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
)

const defaultIndent = "  "

// yamlIndent is the number of spaces per YAML nesting level.
const yamlIndent = 2

// Codec defines how state is serialized and deserialized.
type Codec interface {
	// Encode writes the state to the writer.
	Encode(w io.Writer, state any) error
	// Decode reads the state from the reader.
	Decode(r io.Reader, state any) error
	// Extension returns the file extension for this codec (e.g., ".json", ".yaml").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	err := json.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, state any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, state any) error {
	err := yaml.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}
