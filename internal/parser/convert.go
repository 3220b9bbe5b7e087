package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"localint/internal/ast"
	"localint/internal/errors"
)

// converter adapts tree-sitter CST nodes to the ast contract. The mapping
// is a closed dispatch on node kind: constructs the verifier does not model
// surface as UNSUPPORTED_CONSTRUCT errors here, so the verifier's own
// closed world is already enforced at the boundary.
type converter struct {
	source []byte
	path   string
}

func (c *converter) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.source[node.StartByte():node.EndByte()])
}

func (c *converter) pos(node *sitter.Node) ast.Position {
	return ast.Position{
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (c *converter) unsupported(node *sitter.Node) error {
	err := errors.Newf(errors.CodeUnsupportedConstruct, "construct %q at %s:%d is not supported",
		node.Kind(), c.path, int(node.StartPosition().Row)+1)
	return errors.AddContext(err, errors.CtxPath, c.path)
}

func (c *converter) chunk(root *sitter.Node) (*ast.Chunk, error) {
	body, err := c.block(root)
	if err != nil {
		return nil, err
	}
	return &ast.Chunk{Body: body}, nil
}

// block converts the named children of a chunk/block node into statements.
func (c *converter) block(node *sitter.Node) ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "comment", "hash_bang_line", "empty_statement":
			continue
		}
		st, err := c.statement(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	return statements, nil
}

func (c *converter) statement(node *sitter.Node) (ast.Statement, error) {
	switch node.Kind() {
	case "variable_declaration":
		return c.localStatement(node)
	case "assignment_statement":
		return c.assignmentStatement(node)
	case "function_declaration":
		return c.functionDeclaration(node)
	case "function_call":
		call, err := c.callExpression(node)
		if err != nil {
			return nil, err
		}
		return &ast.CallStatement{Expression: call, Position: c.pos(node)}, nil
	case "if_statement":
		return c.ifStatement(node)
	case "return_statement":
		return c.returnStatement(node)
	default:
		return nil, c.unsupported(node)
	}
}

// localStatement handles `local a, b = x, y`. The grammar wraps the
// initialized form in an inner assignment_statement; the bare form carries
// only a variable_list.
func (c *converter) localStatement(node *sitter.Node) (*ast.LocalStatement, error) {
	st := &ast.LocalStatement{Position: c.pos(node)}

	var variables, inits *sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "assignment_statement":
			variables = c.childOfKind(child, "variable_list")
			inits = c.childOfKind(child, "expression_list")
		case "variable_list":
			variables = child
		}
	}
	if variables == nil {
		return nil, c.unsupported(node)
	}

	for i := uint(0); i < variables.NamedChildCount(); i++ {
		v := variables.NamedChild(i)
		if v.Kind() != "identifier" {
			return nil, c.unsupported(v)
		}
		st.Variables = append(st.Variables, &ast.Identifier{Name: c.text(v), Position: c.pos(v)})
	}
	if inits != nil {
		for i := uint(0); i < inits.NamedChildCount(); i++ {
			expr, err := c.expression(inits.NamedChild(i))
			if err != nil {
				return nil, err
			}
			st.Init = append(st.Init, expr)
		}
	}
	return st, nil
}

func (c *converter) assignmentStatement(node *sitter.Node) (*ast.AssignmentStatement, error) {
	st := &ast.AssignmentStatement{Position: c.pos(node)}

	variables := c.childOfKind(node, "variable_list")
	if variables == nil {
		return nil, c.unsupported(node)
	}
	for i := uint(0); i < variables.NamedChildCount(); i++ {
		target, err := c.expression(variables.NamedChild(i))
		if err != nil {
			return nil, err
		}
		st.Variables = append(st.Variables, target)
	}

	if inits := c.childOfKind(node, "expression_list"); inits != nil {
		for i := uint(0); i < inits.NamedChildCount(); i++ {
			expr, err := c.expression(inits.NamedChild(i))
			if err != nil {
				return nil, err
			}
			st.Init = append(st.Init, expr)
		}
	}
	return st, nil
}

func (c *converter) functionDeclaration(node *sitter.Node) (*ast.FunctionDeclaration, error) {
	decl := &ast.FunctionDeclaration{Position: c.pos(node)}

	// `local function f` keeps the keyword as a leading anonymous child.
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "local" {
			decl.IsLocal = true
			break
		}
	}

	name := node.ChildByFieldName("name")
	if name == nil {
		return nil, c.unsupported(node)
	}
	identifier, err := c.expression(name)
	if err != nil {
		return nil, err
	}
	decl.Identifier = identifier

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			if p.Kind() != "identifier" {
				return nil, c.unsupported(p)
			}
			decl.Parameters = append(decl.Parameters, &ast.Identifier{Name: c.text(p), Position: c.pos(p)})
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = c.childOfKind(node, "block")
	}
	if body != nil {
		statements, err := c.block(body)
		if err != nil {
			return nil, err
		}
		decl.Body = statements
	}
	return decl, nil
}

func (c *converter) ifStatement(node *sitter.Node) (*ast.IfStatement, error) {
	st := &ast.IfStatement{Position: c.pos(node)}

	first := &ast.IfClause{Position: c.pos(node)}
	if cond := node.ChildByFieldName("condition"); cond != nil {
		expr, err := c.expression(cond)
		if err != nil {
			return nil, err
		}
		first.Condition = expr
	}
	if body := c.childOfKind(node, "block"); body != nil {
		statements, err := c.block(body)
		if err != nil {
			return nil, err
		}
		first.Body = statements
	}
	st.Clauses = append(st.Clauses, first)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "elseif_statement":
			clause := &ast.IfClause{Position: c.pos(child)}
			if cond := child.ChildByFieldName("condition"); cond != nil {
				expr, err := c.expression(cond)
				if err != nil {
					return nil, err
				}
				clause.Condition = expr
			}
			if body := c.childOfKind(child, "block"); body != nil {
				statements, err := c.block(body)
				if err != nil {
					return nil, err
				}
				clause.Body = statements
			}
			st.Clauses = append(st.Clauses, clause)
		case "else_statement":
			clause := &ast.IfClause{Position: c.pos(child)}
			if body := c.childOfKind(child, "block"); body != nil {
				statements, err := c.block(body)
				if err != nil {
					return nil, err
				}
				clause.Body = statements
			}
			st.Clauses = append(st.Clauses, clause)
		}
	}
	return st, nil
}

func (c *converter) returnStatement(node *sitter.Node) (*ast.ReturnStatement, error) {
	st := &ast.ReturnStatement{Position: c.pos(node)}
	if list := c.childOfKind(node, "expression_list"); list != nil {
		for i := uint(0); i < list.NamedChildCount(); i++ {
			expr, err := c.expression(list.NamedChild(i))
			if err != nil {
				return nil, err
			}
			st.Arguments = append(st.Arguments, expr)
		}
	}
	return st, nil
}

func (c *converter) expression(node *sitter.Node) (ast.Expression, error) {
	switch node.Kind() {
	case "identifier":
		return &ast.Identifier{Name: c.text(node), Position: c.pos(node)}, nil
	case "dot_index_expression":
		return c.memberExpression(node, node.ChildByFieldName("table"), node.ChildByFieldName("field"), ast.IndexDot)
	case "method_index_expression":
		return c.memberExpression(node, node.ChildByFieldName("table"), node.ChildByFieldName("method"), ast.IndexMethod)
	case "function_call":
		return c.callExpression(node)
	case "number":
		return &ast.NumericLiteral{Value: c.text(node), Position: c.pos(node)}, nil
	case "true":
		return &ast.BooleanLiteral{Value: true, Position: c.pos(node)}, nil
	case "false":
		return &ast.BooleanLiteral{Value: false, Position: c.pos(node)}, nil
	case "nil":
		return &ast.NilLiteral{Position: c.pos(node)}, nil
	case "string":
		return &ast.StringLiteral{Value: c.text(node), Position: c.pos(node)}, nil
	case "binary_expression":
		return c.binaryExpression(node)
	case "table_constructor":
		return c.tableConstructor(node)
	case "parenthesized_expression":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "comment" {
				continue
			}
			return c.expression(child)
		}
		return nil, c.unsupported(node)
	default:
		return nil, c.unsupported(node)
	}
}

func (c *converter) memberExpression(node, base, identifier *sitter.Node, indexer ast.Indexer) (ast.Expression, error) {
	if base == nil || identifier == nil {
		return nil, errors.Newf(errors.CodeBadNode, "malformed member expression at %s:%d", c.path, int(node.StartPosition().Row)+1)
	}
	baseExpr, err := c.expression(base)
	if err != nil {
		return nil, err
	}
	return &ast.MemberExpression{
		Base:       baseExpr,
		Indexer:    indexer,
		Identifier: &ast.Identifier{Name: c.text(identifier), Position: c.pos(identifier)},
		Position:   c.pos(node),
	}, nil
}

func (c *converter) callExpression(node *sitter.Node) (*ast.CallExpression, error) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil, c.unsupported(node)
	}
	base, err := c.expression(name)
	if err != nil {
		return nil, err
	}
	call := &ast.CallExpression{Base: base, Position: c.pos(node)}

	args := node.ChildByFieldName("arguments")
	if args != nil {
		switch args.Kind() {
		case "arguments":
			for i := uint(0); i < args.NamedChildCount(); i++ {
				child := args.NamedChild(i)
				if child.Kind() == "comment" {
					continue
				}
				arg, err := c.expression(child)
				if err != nil {
					return nil, err
				}
				call.Arguments = append(call.Arguments, arg)
			}
		case "string":
			// `print "x"` passes the string without parentheses.
			call.Arguments = append(call.Arguments, &ast.StringLiteral{Value: c.text(args), Position: c.pos(args)})
		default:
			return nil, c.unsupported(args)
		}
	}
	return call, nil
}

// tableConstructor keeps only field values; table keys are opaque to name
// tracking.
func (c *converter) tableConstructor(node *sitter.Node) (ast.Expression, error) {
	table := &ast.TableConstructorExpression{Position: c.pos(node)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		field := node.NamedChild(i)
		if field.Kind() != "field" {
			continue
		}
		value := field.ChildByFieldName("value")
		if value == nil {
			// `{x, y}` list entries have no value field; the entry is the
			// field's only named child.
			value = field.NamedChild(0)
		}
		if value == nil {
			continue
		}
		expr, err := c.expression(value)
		if err != nil {
			return nil, err
		}
		table.Values = append(table.Values, expr)
	}
	return table, nil
}

func (c *converter) binaryExpression(node *sitter.Node) (ast.Expression, error) {
	leftNode := node.ChildByFieldName("left")
	rightNode := node.ChildByFieldName("right")
	if leftNode == nil || rightNode == nil {
		return nil, errors.Newf(errors.CodeBadNode, "malformed binary expression at %s:%d", c.path, int(node.StartPosition().Row)+1)
	}
	left, err := c.expression(leftNode)
	if err != nil {
		return nil, err
	}
	right, err := c.expression(rightNode)
	if err != nil {
		return nil, err
	}

	operator := ""
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			operator = c.text(child)
			break
		}
	}

	pos := c.pos(node)
	if operator == "and" || operator == "or" {
		return &ast.LogicalExpression{Operator: operator, Left: left, Right: right, Position: pos}, nil
	}
	return &ast.BinaryExpression{Operator: operator, Left: left, Right: right, Position: pos}, nil
}

// childOfKind returns the first named child of the given kind.
func (c *converter) childOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
