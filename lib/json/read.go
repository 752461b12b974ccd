package json

import (
	"encoding/json"
	"io"
	"os"

	"github.com/openinstaller/installer/lib/uncommenter"
)

func readFromFile(filename string, value interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return read(file, value)
}

func read(reader io.Reader, value interface{}) error {
	decoder := json.NewDecoder(uncommenter.New(reader,
		uncommenter.CommentTypeAll))
	return decoder.Decode(value)
}
