package dict

import "strings"

// NormalizeFieldName converts a dotted field path into the dictionary's
// canonical UPPER_SNAKE_CASE form: hyphens become underscores and all
// characters are upper-cased. Nested keys are expected to already be
// joined by the caller (see event.Flatten) in stable traversal order;
// NormalizeFieldName only canonicalizes a single already-joined path.
func NormalizeFieldName(name string) string {
	if strings.IndexByte(name, '-') >= 0 {
		name = strings.ReplaceAll(name, "-", "_")
	}
	return strings.ToUpper(name)
}

// NormalizeValue case-folds a string value to its canonical upper-case form
// before dictionary lookup. Comparisons against interned values are always
// performed in this folded space.
func NormalizeValue(value string) string {
	return strings.ToUpper(value)
}
