// Package verify walks a parsed chunk and checks definition discipline:
// every name must be defined in a visible scope before it is used, and
// declarations must not shadow names that are already visible.
package verify

import (
	"github.com/gobwas/glob"

	"localint/internal/ast"
	"localint/internal/errors"
	"localint/internal/scope"
)

const defaultCloneName = "Clone"

// Options carries the per-project configuration for one verifier instance.
// Passing it explicitly keeps analyses independent: there is no shared
// whitelist or derived-property table between files.
type Options struct {
	// Globals are ambient names pre-installed in the global scope.
	Globals []string
	// GlobalPatterns are glob patterns matched against names the exact
	// whitelist misses, e.g. "Game.*".
	GlobalPatterns []string
	// Derived maps a fully qualified constructor name to the builder-style
	// member suffixes available on the value it returns.
	Derived map[string][]string
	// DerivedSeparator joins a variable to a derived suffix. Defaults to
	// the method indexer ":".
	DerivedSeparator string
	// CloneName is the member name treated as the structural clone
	// constructor. Defaults to "Clone".
	CloneName string
}

// Verifier performs one single-threaded, depth-first pass over one chunk.
// Construct a fresh instance per file; state is never reset or reused.
type Verifier struct {
	scopes    *scope.Store
	report    *Report
	derived   map[string][]string
	sep       string
	cloneName string
}

func New(opts Options) (*Verifier, error) {
	sep := opts.DerivedSeparator
	if sep == "" {
		sep = string(ast.IndexMethod)
	}
	cloneName := opts.CloneName
	if cloneName == "" {
		cloneName = defaultCloneName
	}

	store := scope.NewStore(opts.Globals)
	for _, pattern := range opts.GlobalPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid global pattern "+pattern)
		}
		store.AddPattern(g)
	}

	return &Verifier{
		scopes:    store,
		report:    NewReport(),
		derived:   opts.Derived,
		sep:       sep,
		cloneName: cloneName,
	}, nil
}

// Warnings returns the findings accumulated so far, in emission order with
// retractions applied.
func (v *Verifier) Warnings() []Warning {
	return v.report.Warnings()
}

// Check traverses the chunk from the global scope. A returned error is a
// structural failure (unsupported construct or tree-contract violation) and
// invalidates the run; warnings are reported separately via Warnings.
func (v *Verifier) Check(chunk *ast.Chunk) error {
	return v.checkBlock(chunk.Body, scope.GlobalDepth)
}

func (v *Verifier) checkBlock(body []ast.Statement, depth int) error {
	for _, st := range body {
		if err := v.checkStatement(st, depth); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) checkStatement(st ast.Statement, depth int) error {
	switch n := st.(type) {
	case *ast.LocalStatement:
		return v.checkLocal(n, depth)
	case *ast.AssignmentStatement:
		return v.checkAssignment(n, depth)
	case *ast.FunctionDeclaration:
		return v.checkFunction(n, depth)
	case *ast.CallStatement:
		return v.checkExpression(n.Expression, depth)
	case *ast.IfStatement:
		// Conditional branches share the enclosing scope; only function
		// bodies introduce a new one.
		for _, clause := range n.Clauses {
			if clause.Condition != nil {
				if err := v.checkExpression(clause.Condition, depth); err != nil {
					return err
				}
			}
			if err := v.checkBlock(clause.Body, depth); err != nil {
				return err
			}
		}
		return nil
	case *ast.ReturnStatement:
		for _, arg := range n.Arguments {
			if err := v.checkExpression(arg, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Newf(errors.CodeUnsupportedConstruct, "statement %T is not supported", st)
	}
}

func (v *Verifier) checkLocal(n *ast.LocalStatement, depth int) error {
	for i, variable := range n.Variables {
		if err := v.declareName(variable.Name, depth, true, variable.Position); err != nil {
			return err
		}
		if err := v.scopes.Define(variable.Name, depth, true); err != nil {
			return err
		}
		if i < len(n.Init) {
			if call, ok := n.Init[i].(*ast.CallExpression); ok {
				if err := v.expandDerived(variable.Name, call, depth); err != nil {
					return err
				}
			}
		}
	}
	for _, init := range n.Init {
		if err := v.checkExpression(init, depth); err != nil {
			return err
		}
	}
	return nil
}

// checkAssignment handles plain (non-local) assignment. A target that is
// already visible mutates the existing entry; an unseen target becomes a
// global definition.
func (v *Verifier) checkAssignment(n *ast.AssignmentStatement, depth int) error {
	for _, target := range n.Variables {
		name, class, err := resolveName(target)
		if err != nil {
			return err
		}
		if class != classResolved {
			if err := v.checkExpression(target, depth); err != nil {
				return err
			}
			continue
		}
		visible, err := v.scopes.IsVisible(name, depth)
		if err != nil {
			return err
		}
		if visible {
			if _, err := v.scopes.Use(name, depth); err != nil {
				return err
			}
			continue
		}
		if err := v.scopes.Define(name, depth, false); err != nil {
			return err
		}
		v.report.retract(name)
	}
	for _, init := range n.Init {
		if err := v.checkExpression(init, depth); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) checkFunction(n *ast.FunctionDeclaration, depth int) error {
	name, class, err := resolveName(n.Identifier)
	if err != nil {
		return err
	}
	if class != classResolved {
		return errors.Newf(errors.CodeBadNode, "function declaration with unresolvable name %T", n.Identifier)
	}
	if err := v.declareName(name, depth, n.IsLocal, n.Position); err != nil {
		return err
	}
	if err := v.scopes.Define(name, depth, n.IsLocal); err != nil {
		return err
	}

	inner := v.scopes.Push()
	for _, param := range n.Parameters {
		if err := v.scopes.Define(param.Name, inner, true); err != nil {
			return err
		}
	}
	if err := v.checkBlock(n.Body, inner); err != nil {
		return err
	}
	return v.scopes.Pop()
}

func (v *Verifier) checkExpression(e ast.Expression, depth int) error {
	switch n := e.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		name, class, err := resolveName(n)
		if err != nil {
			return err
		}
		if class != classResolved {
			// Chains rooted in something other than a name (e.g. a call
			// result) fall back to checking the root itself.
			if member, ok := n.(*ast.MemberExpression); ok {
				return v.checkExpression(member.Base, depth)
			}
			return nil
		}
		return v.useName(name, depth, n.Pos())
	case *ast.CallExpression:
		name, class, err := resolveName(n.Base)
		if err != nil {
			return err
		}
		if class == classResolved {
			if err := v.useName(name, depth, n.Position); err != nil {
				return err
			}
		} else if err := v.checkExpression(n.Base, depth); err != nil {
			return err
		}
		for _, arg := range n.Arguments {
			if err := v.checkExpression(arg, depth); err != nil {
				return err
			}
		}
		return nil
	case *ast.NumericLiteral, *ast.BooleanLiteral, *ast.NilLiteral, *ast.StringLiteral:
		return nil
	case *ast.TableConstructorExpression:
		for _, value := range n.Values {
			if err := v.checkExpression(value, depth); err != nil {
				return err
			}
		}
		return nil
	case *ast.BinaryExpression:
		if err := v.checkOperand(n.Left, depth); err != nil {
			return err
		}
		return v.checkOperand(n.Right, depth)
	case *ast.LogicalExpression:
		if err := v.checkOperand(n.Left, depth); err != nil {
			return err
		}
		return v.checkOperand(n.Right, depth)
	default:
		return errors.Newf(errors.CodeUnsupportedConstruct, "expression %T is not supported", e)
	}
}

// checkOperand handles one side of a binary or logical expression. Each
// side resolves its own name; compound sides recurse; opaque sides are
// ignored.
func (v *Verifier) checkOperand(e ast.Expression, depth int) error {
	name, class, err := resolveName(e)
	if err != nil {
		return err
	}
	switch class {
	case classResolved:
		return v.useName(name, depth, e.Pos())
	case classCompound:
		return v.checkExpression(e, depth)
	default:
		return nil
	}
}

func (v *Verifier) useName(name string, depth int, pos ast.Position) error {
	visible, err := v.scopes.Use(name, depth)
	if err != nil {
		return err
	}
	if !visible {
		v.report.addUndefined(name, pos)
	}
	return nil
}

// declareName runs the pre-definition check: an already-visible name is a
// redefinition finding; an unseen one resolves any forward reference
// recorded earlier in the pass.
func (v *Verifier) declareName(name string, depth int, isLocal bool, pos ast.Position) error {
	already, err := v.scopes.Declare(name, depth, isLocal)
	if err != nil {
		return err
	}
	if already {
		v.report.addRedefinition(name, pos)
	} else {
		v.report.retract(name)
	}
	return nil
}
