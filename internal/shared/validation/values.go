package validation

import (
	"strings"

	"enterprise_backend/internal/shared/apperror"
)

// DefaultValueSeparator separates value names in the enterprise form.
const DefaultValueSeparator = ","

// NormalizeValuesList splits raw on sep, trims and lower-cases every token and
// drops case-insensitive duplicates, keeping the first occurrence.
// Empty tokens are ignored. More than MaxValues names is a LengthError.
func NormalizeValuesList(raw, sep string) ([]string, error) {
	if sep == "" {
		sep = DefaultValueSeparator
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, token := range strings.Split(raw, sep) {
		name := strings.ToLower(strings.TrimSpace(token))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		if err := MaxLength("values", name, MaxValueNameLength); err != nil {
			return nil, err
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > MaxValues {
		return nil, apperror.New(apperror.KindLengthError, "values", MsgTooManyValues)
	}
	return out, nil
}
