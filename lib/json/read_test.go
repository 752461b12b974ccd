package json

import (
	"bytes"
	"testing"
)

var (
	trailingCommaJson = []byte(`{
    "Timezone": "Europe/Berlin",
}
`)

	commentedJson = []byte(`{
# Selected during preseeding.
    "Timezone": "Europe/Berlin"
}
`)
)

type testDataType struct {
	Timezone string
}

func TestBadInput(t *testing.T) {
	var data testDataType
	if err := Read(bytes.NewBuffer(trailingCommaJson), &data); err == nil {
		t.Errorf("no failure reading JSON with trailing comma")
	}
}

func TestCommentsFiltered(t *testing.T) {
	var data testDataType
	if err := Read(bytes.NewBuffer(commentedJson), &data); err != nil {
		t.Errorf("failure reading commented JSON: %s", err)
	}
	if data.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone: got: \"%s\"", data.Timezone)
	}
}
