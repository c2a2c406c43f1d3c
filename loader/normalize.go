package loader

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// NormalizeHeader converts raw header fields to warehouse-friendly column names:
// spaces and slashes become underscores, periods and parentheses are removed,
// and the result is upper-cased. Any remaining character outside [A-Za-z0-9_]
// is a configuration error since column names are emitted into generated SQL.
func NormalizeHeader(header []string) ([]string, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		name := strings.ReplaceAll(h, " ", "_")
		name = strings.ReplaceAll(name, ".", "")
		name = strings.ReplaceAll(name, "/", "_")
		name = strings.ReplaceAll(name, "(", "")
		name = strings.ReplaceAll(name, ")", "")
		name = strings.ToUpper(name)
		if err := ValidateIdentifier(name); err != nil {
			return nil, errors.Wrapf(err, "bad column name %q in header field %v", h, i+1)
		}
		cols[i] = name
	}
	return cols, nil
}

// ValidateIdentifier rejects names that cannot be emitted safely into generated SQL.
func ValidateIdentifier(name string) error {
	if name == "" {
		return errors.New("identifier is empty")
	}
	if !identifierRegex.MatchString(name) {
		return errors.Errorf("identifier %q contains characters outside [A-Za-z0-9_]", name)
	}
	return nil
}
