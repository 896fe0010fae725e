// Package jsonfile encodes build artifacts the way the static site expects
// them: two-space indentation, no HTML escaping, no trailing newline.
package jsonfile

import (
	"bytes"
	"encoding/json"
)

// Marshal encodes v as an indented JSON document.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
