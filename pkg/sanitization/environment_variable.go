package sanitization

import "regexp"

// EnvVarKeySanitizer normalizes a string into a legal environment variable key.
var EnvVarKeySanitizer = NewSanitizer(
	// strip any leading non alpha characters
	Rule{
		Pattern:     regexp.MustCompile(`^[^a-zA-Z]+`),
		Replacement: "",
	},
	// replace "-" or whitespace with "_"
	Rule{
		Pattern:     regexp.MustCompile(`[-\s]+`),
		Replacement: "_",
	},
	// strip any other invalid characters
	Rule{
		Pattern:     regexp.MustCompile(`[^a-zA-Z0-9_]+`),
		Replacement: "",
	})

// SymbolPrefixSanitizer normalizes a resource kind name into a prefix that is
// legal at the start of a generated template identifier.
var SymbolPrefixSanitizer = NewSanitizer(
	Rule{
		Pattern:     regexp.MustCompile(`^[^a-zA-Z]+`),
		Replacement: "",
	},
	Rule{
		Pattern:     regexp.MustCompile(`[^a-zA-Z0-9]+`),
		Replacement: "",
	})
