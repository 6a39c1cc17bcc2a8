package importer

import (
	"regexp"
	"unicode/utf8"
)

type columnRole int

const (
	roleDate columnRole = iota
	roleAmount
	roleDescription
	numRoles
)

func (r columnRole) String() string {
	switch r {
	case roleDate:
		return "date"
	case roleAmount:
		return "amount"
	case roleDescription:
		return "description"
	}
	return "unknown"
}

// minDescriptionLen is the length a field must exceed to be taken as the
// description during auto-detection.
const minDescriptionLen = 10

var (
	dateLike      = regexp.MustCompile(`^\d{2,4}[-/]\d{1,2}[-/]\d{2,4}$`)
	signedDecimal = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)
)

// detectionRule pairs a column role with the test a field must pass to claim it.
type detectionRule struct {
	role  columnRole
	match func(field string) bool
}

// detectionTable is evaluated in order for every field, left to right. A field
// claims the first role it matches that is still unassigned; each role is
// claimed at most once.
var detectionTable = []detectionRule{
	{role: roleDate, match: func(f string) bool { return dateLike.MatchString(f) }},
	{role: roleAmount, match: func(f string) bool { return signedDecimal.MatchString(cleanAmount(f)) }},
	{role: roleDescription, match: func(f string) bool { return utf8.RuneCountInString(f) > minDescriptionLen }},
}

// detectColumns assigns field indexes to roles. ok is false when any role
// remains unassigned.
func detectColumns(fields []string) (cols [numRoles]int, ok bool) {
	for i := range cols {
		cols[i] = -1
	}
	for i, f := range fields {
		for _, rule := range detectionTable {
			if cols[rule.role] != -1 || !rule.match(f) {
				continue
			}
			cols[rule.role] = i
			break
		}
	}
	for _, c := range cols {
		if c == -1 {
			return cols, false
		}
	}
	return cols, true
}
