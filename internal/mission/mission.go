// Package mission derives the mission statement preview and its advisory
// from the four mission tokens (guide, result, action, object).
package mission

import "strings"

// ResultMissing is the advisory raised while the mission names an action and
// an object but no result.
const ResultMissing = "Recuerda que la Misión debe incluir explícitamente el 'PARA QUÉ' (Resultado)."

// Preview joins the four tokens with single spaces and trims the ends.
// Empty tokens keep their separator; consumers render a placeholder when the
// whole preview is empty.
func Preview(guide, result, action, object string) string {
	return strings.TrimSpace(guide + " " + result + " " + action + " " + object)
}

// Warning returns the ResultMissing advisory when action and object are both
// set and result is empty, else the empty string. It is recomputed on every
// token change, not checked once.
func Warning(guide, result, action, object string) string {
	if action != "" && object != "" && result == "" {
		return ResultMissing
	}
	return ""
}
