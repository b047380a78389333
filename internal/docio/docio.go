// Package docio reads and writes JSON documents and patches for the jsonpatch
// command. Input may be JSON or YAML; output is JSON, YAML or a line diff.
package docio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/agentflare-ai/go-jsonpatch"
)

// Output formats understood by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// ErrEmptyInput is returned when an input contains no document.
var ErrEmptyInput = errors.New("empty input")

// ReadFile reads path, or stdin when path is "-".
func ReadFile(path string, stdin io.Reader) ([]byte, error) {
	if path == Stdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// toJSON converts YAML (and therefore JSON) input to JSON text.
func toJSON(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	out, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return out, nil
}

// Decode parses a JSON or YAML document into a JSON tree.
func Decode(data []byte) (any, error) {
	raw, err := toJSON(data)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// DecodePatch parses a JSON or YAML list of patch operations.
func DecodePatch(data []byte) (jsonpatch.Patch, error) {
	raw, err := toJSON(data)
	if err != nil {
		return nil, err
	}
	return jsonpatch.DecodePatch(raw)
}

// ReadDocument reads and decodes the document at path.
func ReadDocument(path string, stdin io.Reader) (any, error) {
	data, err := ReadFile(path, stdin)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	return doc, nil
}

// ReadPatch reads and decodes the patch at path.
func ReadPatch(path string, stdin io.Reader) (jsonpatch.Patch, error) {
	data, err := ReadFile(path, stdin)
	if err != nil {
		return nil, err
	}
	patch, err := DecodePatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	return patch, nil
}

func displayName(path string) string {
	if path == Stdin {
		return "stdin"
	}
	return path
}

// Encode writes v to w in format. JSON is indented by indent spaces, or
// compact when indent is 0. Output always ends with a newline.
func Encode(w io.Writer, v any, format string, indent int) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		return enc.Encode(v)
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
