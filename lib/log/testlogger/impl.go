package testlogger

import (
	"fmt"
)

func strip(s string) string {
	if length := len(s); length > 0 && s[length-1] == '\n' {
		return s[:length-1]
	}
	return s
}

func sprint(v ...interface{}) string {
	return strip(fmt.Sprint(v...))
}

func sprintf(format string, v ...interface{}) string {
	return strip(fmt.Sprintf(format, v...))
}
