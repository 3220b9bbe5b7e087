package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"localint/internal/verify"
)

// SARIF v2.1.0 – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUseUndefined = "LNT001"
	ruleIDRedefinition = "LNT002"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from analysis results. File
// URIs are made relative to projectRoot so reports are safe to share.
func GenerateSARIF(projectRoot, toolVersion string, results []FileResult) ([]byte, error) {
	sarifResults := make([]sarifResult, 0)
	for _, r := range results {
		uri := relativeURI(projectRoot, r.Path)
		for _, w := range r.Warnings {
			ruleID := ruleIDUseUndefined
			msg := fmt.Sprintf("Variable %q is used before it is defined", w.Name)
			if w.Kind == verify.WarnRedefinition {
				ruleID = ruleIDRedefinition
				msg = fmt.Sprintf("Variable %q is redefined while still visible", w.Name)
			}
			sarifResults = append(sarifResults, sarifResult{
				RuleID:  ruleID,
				Level:   "warning",
				Message: sarifMessage{Text: msg},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri},
						Region: &sarifRegion{
							StartLine:   w.Position.Line,
							StartColumn: w.Position.Column,
						},
					},
				}},
			})
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "localint",
				Version: toolVersion,
				Rules: []sarifRule{
					{
						ID:               ruleIDUseUndefined,
						Name:             "UseUndefined",
						ShortDescription: sarifMessage{Text: "Variable used before definition"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
					},
					{
						ID:               ruleIDRedefinition,
						Name:             "VariableRedefinition",
						ShortDescription: sarifMessage{Text: "Variable redefined while visible"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
					},
				},
			}},
			Results: sarifResults,
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func relativeURI(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
