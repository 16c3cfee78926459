package sanitization

import "regexp"

type (
	// Sanitizer applies an ordered list of replacement rules to an input string.
	Sanitizer struct {
		rules []Rule
	}

	Rule struct {
		Pattern     *regexp.Regexp
		Replacement string
	}
)

func NewSanitizer(rules ...Rule) *Sanitizer {
	return &Sanitizer{rules: rules}
}

func (s *Sanitizer) Apply(input string) string {
	output := input
	for _, rule := range s.rules {
		output = rule.Pattern.ReplaceAllString(output, rule.Replacement)
	}
	return output
}
