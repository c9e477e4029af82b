package importer

import (
	"bytes"
	"encoding/json"
)

// Repair reports how a truncated export was closed
type Repair struct {
	Applied       bool
	AddedBraces   int
	AddedBrackets int
}

// RepairJSON closes an export that was cut off mid-document by appending the
// missing '}' and then the missing ']' characters. Input that is valid JSON
// or already ends in "]]" is returned trimmed but otherwise unchanged.
//
// Braces and brackets are counted literally, including inside string
// values, so deeply malformed input may still fail to parse afterwards.
func RepairJSON(data []byte) ([]byte, Repair) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasSuffix(trimmed, []byte("]]")) || json.Valid(trimmed) {
		return trimmed, Repair{}
	}

	braces := bytes.Count(trimmed, []byte("{")) - bytes.Count(trimmed, []byte("}"))
	brackets := bytes.Count(trimmed, []byte("[")) - bytes.Count(trimmed, []byte("]"))
	braces, brackets = max(braces, 0), max(brackets, 0)

	out := make([]byte, 0, len(trimmed)+2*(braces+brackets))
	out = append(out, trimmed...)
	for range braces {
		out = append(out, '\n', '}')
	}
	for range brackets {
		out = append(out, '\n', ']')
	}
	return out, Repair{Applied: true, AddedBraces: braces, AddedBrackets: brackets}
}
