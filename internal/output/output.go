// Package output renders analysis results as plain text, TSV, or SARIF.
package output

import "localint/internal/verify"

// FileResult is the outcome of analyzing one file.
type FileResult struct {
	Path     string
	Warnings []verify.Warning
}

// TotalWarnings sums the warnings across all results.
func TotalWarnings(results []FileResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Warnings)
	}
	return total
}

// CountByKind tallies warnings of one kind across all results.
func CountByKind(results []FileResult, kind verify.WarningKind) int {
	total := 0
	for _, r := range results {
		for _, w := range r.Warnings {
			if w.Kind == kind {
				total++
			}
		}
	}
	return total
}
