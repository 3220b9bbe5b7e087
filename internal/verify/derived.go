package verify

import (
	"localint/internal/ast"
)

// expandDerived models the builder-pattern idiom: a local variable whose
// initializer is a recognized factory call gains a fixed set of member
// definitions, so later `handle:SetFoo(...)` calls resolve without the
// analyzed script ever defining them.
//
// Two forms are recognized:
//   - a callee listed in the derived-property table, which contributes its
//     configured suffixes;
//   - a structural `source:Clone()` call, which copies every member
//     currently defined under the source variable onto the new one.
func (v *Verifier) expandDerived(varName string, call *ast.CallExpression, depth int) error {
	callee, class, err := resolveName(call.Base)
	if err != nil {
		return err
	}
	if class != classResolved {
		return nil
	}

	if suffixes, ok := v.derived[callee]; ok {
		for _, suffix := range suffixes {
			if err := v.scopes.Define(varName+v.sep+suffix, depth, true); err != nil {
				return err
			}
		}
		return nil
	}

	if source, ok := v.cloneSource(call.Base); ok {
		return v.expandClone(varName, source, depth)
	}
	return nil
}

// cloneSource reports the base name of a `source:Clone` callee, if that is
// what the expression is.
func (v *Verifier) cloneSource(callee ast.Expression) (string, bool) {
	member, ok := callee.(*ast.MemberExpression)
	if !ok || member.Indexer != ast.IndexMethod || member.Identifier == nil {
		return "", false
	}
	if member.Identifier.Name != v.cloneName {
		return "", false
	}
	source, class, err := resolveName(member.Base)
	if err != nil || class != classResolved {
		return "", false
	}
	return source, true
}

// expandClone copies every member property visible under source onto
// varName, preserving each property's own separator.
func (v *Verifier) expandClone(varName, source string, depth int) error {
	for _, sep := range []string{string(ast.IndexMethod), string(ast.IndexDot)} {
		suffixes, err := v.scopes.MembersOf(source, sep, depth)
		if err != nil {
			return err
		}
		for _, suffix := range suffixes {
			if err := v.scopes.Define(varName+sep+suffix, depth, true); err != nil {
				return err
			}
		}
	}
	return nil
}
