package slob

import "github.com/arloliu/goslob/header"

// SetTagValue rewrites a single header tag's value in place, the only
// mutation the format supports.
func SetTagValue(filename, name, value string) error {
	return header.SetTagValue(filename, name, value)
}
