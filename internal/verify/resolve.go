package verify

import (
	"localint/internal/ast"
	"localint/internal/errors"
)

// operandClass tags how an expression participates in name tracking.
// Resolution is a total function over this tag instead of a throw-and-catch
// control path.
type operandClass int

const (
	// classResolved: a simple identifier or member chain with a usable
	// joined name.
	classResolved operandClass = iota
	// classCompound: not a name, but carries sub-expressions worth
	// descending into (binary/logical operands).
	classCompound
	// classOpaque: neither a name nor a compound; contributes nothing.
	classOpaque
)

// resolveName flattens a simple identifier or a member-access chain into
// its joined string form (`a.b`, `base.mid:leaf`). A node outside those two
// shapes yields classOpaque. A member node with an unknown indexer is a
// contract violation and fails hard.
func resolveName(e ast.Expression) (string, operandClass, error) {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name, classResolved, nil
	case *ast.MemberExpression:
		if n.Indexer != ast.IndexDot && n.Indexer != ast.IndexMethod {
			return "", classOpaque, errors.Newf(errors.CodeBadNode, "invalid member indexer %q", string(n.Indexer))
		}
		if n.Identifier == nil {
			return "", classOpaque, errors.New(errors.CodeBadNode, "member expression without identifier")
		}
		base, class, err := resolveName(n.Base)
		if err != nil {
			return "", classOpaque, err
		}
		if class != classResolved {
			return "", classOpaque, nil
		}
		return base + string(n.Indexer) + n.Identifier.Name, classResolved, nil
	case *ast.BinaryExpression, *ast.LogicalExpression, *ast.TableConstructorExpression:
		return "", classCompound, nil
	default:
		return "", classOpaque, nil
	}
}
