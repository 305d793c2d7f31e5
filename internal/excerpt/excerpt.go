// Package excerpt produces size-bounded text excerpts of source files
// for inclusion in diagnosis requests.
package excerpt

import "os"

// TrimMarker separates the head and tail halves of a trimmed excerpt.
const TrimMarker = "\n...\n[TRIMMED]\n...\n"

// Extract reads the file at path and returns its content bounded by a
// character budget. Content within the budget is returned verbatim; longer
// content is cut to the first and last half-budget characters with
// TrimMarker in between, keeping the imports at the top and the likely
// failure site at the bottom.
//
// A budget <= 0 means no limit. A file that cannot be read yields the
// empty string: a missing script is not a reason to abort a diagnosis.
func Extract(path string, budget int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	text := string(data)
	if budget <= 0 {
		return text
	}

	chars := []rune(text)
	if len(chars) <= budget {
		return text
	}

	half := budget / 2
	head := string(chars[:half])
	tail := string(chars[len(chars)-half:])
	return head + TrimMarker + tail
}
