package output

import (
	"fmt"
	"strings"

	"localint/internal/verify"
)

// GenerateText renders the classic numbered warning listing.
func GenerateText(results []FileResult) string {
	var b strings.Builder

	n := 0
	for _, r := range results {
		if len(r.Warnings) == 0 {
			continue
		}
		b.WriteString(r.Path + "\n")
		for _, w := range r.Warnings {
			n++
			b.WriteString(fmt.Sprintf("Warning #%d: %s %q at line %d, column %d\n",
				n, describe(w.Kind), w.Name, w.Position.Line, w.Position.Column))
		}
	}
	if n == 0 {
		b.WriteString("No warnings.\n")
	}
	return b.String()
}

func describe(kind verify.WarningKind) string {
	switch kind {
	case verify.WarnUseUndefined:
		return "use of undefined variable"
	case verify.WarnRedefinition:
		return "redefinition of variable"
	default:
		return string(kind)
	}
}
