package uncommenter

import (
	"bufio"
	"bytes"
	"io"
)

type uncommenter struct {
	commentTypes uint64
	scanner      *bufio.Scanner
	pending      []byte
	err          error
}

func newUncommenter(reader io.Reader, commentTypes uint64) io.Reader {
	if commentTypes == 0 {
		return reader
	}
	return &uncommenter{
		commentTypes: commentTypes,
		scanner:      bufio.NewScanner(reader),
	}
}

func (u *uncommenter) isComment(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	if u.commentTypes&CommentTypeHash != 0 &&
		bytes.HasPrefix(trimmed, []byte("#")) {
		return true
	}
	if u.commentTypes&CommentTypeSlashSlash != 0 &&
		bytes.HasPrefix(trimmed, []byte("//")) {
		return true
	}
	if u.commentTypes&CommentTypeBang != 0 &&
		bytes.HasPrefix(trimmed, []byte("!")) {
		return true
	}
	return false
}

func (u *uncommenter) fill() {
	for u.scanner.Scan() {
		line := u.scanner.Bytes()
		if u.isComment(line) {
			continue
		}
		u.pending = append(u.pending, line...)
		u.pending = append(u.pending, '\n')
		return
	}
	if err := u.scanner.Err(); err != nil {
		u.err = err
	} else {
		u.err = io.EOF
	}
}

func (u *uncommenter) Read(p []byte) (int, error) {
	for len(u.pending) < 1 {
		if u.err != nil {
			return 0, u.err
		}
		u.fill()
	}
	nCopied := copy(p, u.pending)
	u.pending = u.pending[nCopied:]
	return nCopied, nil
}
