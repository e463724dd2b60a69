package esexpr

import "strings"

// ReformatTypeName converts a PascalCase or camelCase type name, with
// embedded digits and acronyms, to lowercase kebab-case:
//
//	TestABC           -> test-abc
//	TestNameWithParts -> test-name-with-parts
//	TestABCAfter      -> test-abc-after
//	MyName123Test     -> my-name123-test
func ReformatTypeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	isUpper := func(c byte) bool { return c >= 'A' && c <= 'Z' }
	isLowerOrDigit := func(c byte) bool {
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if i > 0 && isUpper(c) {
			prev := name[i-1]
			nextLower := i+1 < len(name) && name[i+1] >= 'a' && name[i+1] <= 'z'
			if isLowerOrDigit(prev) || (isUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		if isUpper(c) {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ReformatFieldName converts an underscore-separated field name to the
// dash-separated form used for keyword argument names.
func ReformatFieldName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
