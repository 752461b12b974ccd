package uncommenter

import (
	"io"
	"strings"
	"testing"
)

func filter(t *testing.T, input string, commentTypes uint64) string {
	output, err := io.ReadAll(New(strings.NewReader(input), commentTypes))
	if err != nil {
		t.Fatal(err)
	}
	return string(output)
}

func TestHashComments(t *testing.T) {
	input := "keep\n# drop\n  # drop too\nkeep\n"
	if output := filter(t, input, CommentTypeHash); output != "keep\nkeep\n" {
		t.Errorf("got: %q", output)
	}
}

func TestSelectedTypesOnly(t *testing.T) {
	input := "// kept\n# dropped\n"
	if output := filter(t, input, CommentTypeHash); output != "// kept\n" {
		t.Errorf("got: %q", output)
	}
}

func TestAllTypes(t *testing.T) {
	input := "data\n# a\n// b\n! c\n"
	if output := filter(t, input, CommentTypeAll); output != "data\n" {
		t.Errorf("got: %q", output)
	}
}

func TestZeroTypesPassthrough(t *testing.T) {
	reader := strings.NewReader("# untouched\n")
	if New(reader, 0) != io.Reader(reader) {
		t.Error("expected the underlying reader back")
	}
}
