// Package flagutil provides flag types for common list arguments.
package flagutil

// StringList is a comma separated list of strings for the flag package.
type StringList []string
