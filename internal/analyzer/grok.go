package analyzer

import "regexp"

// A grok match string embeds field names either as %{TYPE:name} tokens or
// (?P<name>...) named-capture groups.
var (
	grokNamedTokenRe = regexp.MustCompile(`%\{[^}]+?:([^}]+?)\}`)
	grokPCaptureRe   = regexp.MustCompile(`\(\?P<([^>]+)>`)
)

// extractGrokNames returns every field name a grok pattern string sets.
func extractGrokNames(pattern string) []string {
	var names []string
	for _, m := range grokNamedTokenRe.FindAllStringSubmatch(pattern, -1) {
		names = append(names, m[1])
	}
	for _, m := range grokPCaptureRe.FindAllStringSubmatch(pattern, -1) {
		names = append(names, m[1])
	}
	return names
}

// substitutionRe matches %{field} substitutions embedded in a mutate
// value expression.
var substitutionRe = regexp.MustCompile(`%\{([^}]+)\}`)

func substitutionRefs(expr string) []string {
	var refs []string
	for _, m := range substitutionRe.FindAllStringSubmatch(expr, -1) {
		refs = append(refs, m[1])
	}
	return refs
}
