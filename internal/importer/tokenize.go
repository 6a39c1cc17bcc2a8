package importer

import "strings"

const fieldSeparator = ','

// Tokenize splits one CSV line into trimmed fields. A double quote toggles
// quoted mode and is never part of the field; separators inside quotes are
// kept. A doubled quote ("") is not read as an escaped literal quote.
func Tokenize(line string) []string {
	var fields []string
	var cur strings.Builder
	quoted := false

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == fieldSeparator && !quoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// SplitRecords returns the non-blank lines of text with the first headerRows
// lines removed.
func SplitRecords(text string, headerRows int) []string {
	var records []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, line)
	}
	if headerRows <= 0 {
		return records
	}
	if headerRows >= len(records) {
		return nil
	}
	return records[headerRows:]
}
