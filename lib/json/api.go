package json

import (
	"io"
)

// Read reads JSON data from reader and writes the decoded data to value.
// If the JSON data are newline separated, lines beginning with comments are
// ignored. Comment lines may begin with "#", "//" or "!" and continue until
// the next newline.
func Read(reader io.Reader, value interface{}) error {
	return read(reader, value)
}

// ReadFromFile reads JSON data from the specified file and writes the
// decoded data to value, with the same comment filtering as Read.
func ReadFromFile(filename string, value interface{}) error {
	return readFromFile(filename, value)
}
