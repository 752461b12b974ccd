package uncommenter

import (
	"io"
)

const (
	CommentTypeHash       = 1 << iota // "#"
	CommentTypeSlashSlash             // "//"
	CommentTypeBang                   // "!"

	CommentTypeAll = 0xffffffffffffffff
)

// New returns a wrapped reader which filters out comment lines. A comment
// line is arbitrary whitespace followed by one of the specified comment
// markers, up to and including the next newline.
func New(reader io.Reader, commentTypes uint64) io.Reader {
	return newUncommenter(reader, commentTypes)
}
