package verify

import "localint/internal/ast"

type WarningKind string

const (
	WarnUseUndefined WarningKind = "UseUndefined"
	WarnRedefinition WarningKind = "VariableRedefinition"
)

// Warning is a single analysis finding. Findings are data, never errors:
// traversal keeps going after recording one.
type Warning struct {
	Kind     WarningKind
	Name     string
	Position ast.Position
}

// Report accumulates warnings in emission order. UseUndefined findings are
// provisional: a later declaration of the same name retracts them.
type Report struct {
	warnings  []Warning
	undefined map[string]int // name -> count of pending UseUndefined entries
}

func NewReport() *Report {
	return &Report{undefined: make(map[string]int)}
}

func (r *Report) addUndefined(name string, pos ast.Position) {
	// Only the first failed use of a name is reported.
	if r.undefined[name] > 0 {
		return
	}
	r.warnings = append(r.warnings, Warning{Kind: WarnUseUndefined, Name: name, Position: pos})
	r.undefined[name]++
}

func (r *Report) addRedefinition(name string, pos ast.Position) {
	r.warnings = append(r.warnings, Warning{Kind: WarnRedefinition, Name: name, Position: pos})
}

// retract drops every pending UseUndefined warning for name.
func (r *Report) retract(name string) {
	if r.undefined[name] == 0 {
		return
	}
	kept := r.warnings[:0]
	for _, w := range r.warnings {
		if w.Kind == WarnUseUndefined && w.Name == name {
			continue
		}
		kept = append(kept, w)
	}
	r.warnings = kept
	delete(r.undefined, name)
}

// Warnings returns the accumulated findings in emission order.
func (r *Report) Warnings() []Warning {
	return r.warnings
}
