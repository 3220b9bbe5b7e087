package output

import (
	"fmt"
	"strings"
)

// GenerateTSV renders one row per warning, suitable for spreadsheets and
// shell pipelines.
func GenerateTSV(results []FileResult) string {
	var b strings.Builder
	b.WriteString("file\tkind\tname\tline\tcolumn\n")
	for _, r := range results {
		for _, w := range r.Warnings {
			b.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\n",
				r.Path, w.Kind, w.Name, w.Position.Line, w.Position.Column))
		}
	}
	return b.String()
}
