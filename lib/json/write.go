package json

import (
	"encoding/json"
	"io"
)

// WriteWithIndent encodes value as indented JSON.
func WriteWithIndent(writer io.Writer, indent string, value interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", indent)
	return encoder.Encode(value)
}
