// Package ast defines the syntax-tree contract consumed by the verifier.
// The node set is deliberately closed: the frontend only ever produces these
// shapes, and the verifier treats anything outside them as unsupported.
package ast

// Position locates a node in the original source file.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
}

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Chunk is the root of a parsed file: a flat list of top-level statements.
type Chunk struct {
	Body []Statement
}

// Identifier is a simple name.
type Identifier struct {
	Name     string
	Position Position
}

// Indexer separates the segments of a member access chain.
type Indexer string

const (
	IndexDot    Indexer = "." // field access
	IndexMethod Indexer = ":" // method-style access
)

// MemberExpression is one link of a member access chain, e.g. the `b` in
// `a.b` or the `c` in `a.b:c`. Base may itself be a MemberExpression.
type MemberExpression struct {
	Base       Expression
	Indexer    Indexer
	Identifier *Identifier
	Position   Position
}

// LocalStatement declares one or more scope-local variables,
// optionally with initializers: `local a, b = f(), 2`.
type LocalStatement struct {
	Variables []*Identifier
	Init      []Expression
	Position  Position
}

// AssignmentStatement assigns to names that were not introduced with a
// local declaration: `x = 1` or `t.field = v`.
type AssignmentStatement struct {
	Variables []Expression
	Init      []Expression
	Position  Position
}

// FunctionDeclaration declares a named function. Identifier is a simple
// name or a member chain (`function M.helper() ... end`).
type FunctionDeclaration struct {
	Identifier Expression
	IsLocal    bool
	Parameters []*Identifier
	Body       []Statement
	Position   Position
}

// CallExpression invokes Base with Arguments.
type CallExpression struct {
	Base      Expression
	Arguments []Expression
	Position  Position
}

// CallStatement is a call used in statement position.
type CallStatement struct {
	Expression *CallExpression
	Position   Position
}

// IfClause is one arm of a conditional. The trailing else arm has a nil
// Condition.
type IfClause struct {
	Condition Expression
	Body      []Statement
	Position  Position
}

type IfStatement struct {
	Clauses  []*IfClause
	Position Position
}

type ReturnStatement struct {
	Arguments []Expression
	Position  Position
}

type NumericLiteral struct {
	Value    string
	Position Position
}

type BooleanLiteral struct {
	Value    bool
	Position Position
}

type NilLiteral struct {
	Position Position
}

// StringLiteral carries no name information; the verifier treats it like
// the other literals.
type StringLiteral struct {
	Value    string
	Position Position
}

// TableConstructorExpression is a `{...}` literal. Keys carry no name
// information; only the field values matter for use checking.
type TableConstructorExpression struct {
	Values   []Expression
	Position Position
}

type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
	Position Position
}

// LogicalExpression is `and`/`or`; kept distinct from BinaryExpression to
// mirror the frontend's node kinds.
type LogicalExpression struct {
	Operator string
	Left     Expression
	Right    Expression
	Position Position
}

func (n *Identifier) Pos() Position          { return n.Position }
func (n *MemberExpression) Pos() Position    { return n.Position }
func (n *LocalStatement) Pos() Position      { return n.Position }
func (n *AssignmentStatement) Pos() Position { return n.Position }
func (n *FunctionDeclaration) Pos() Position { return n.Position }
func (n *CallExpression) Pos() Position      { return n.Position }
func (n *CallStatement) Pos() Position       { return n.Position }
func (n *IfClause) Pos() Position            { return n.Position }
func (n *IfStatement) Pos() Position         { return n.Position }
func (n *ReturnStatement) Pos() Position     { return n.Position }
func (n *NumericLiteral) Pos() Position      { return n.Position }
func (n *BooleanLiteral) Pos() Position      { return n.Position }
func (n *NilLiteral) Pos() Position          { return n.Position }
func (n *StringLiteral) Pos() Position       { return n.Position }

func (n *TableConstructorExpression) Pos() Position { return n.Position }
func (n *BinaryExpression) Pos() Position    { return n.Position }
func (n *LogicalExpression) Pos() Position   { return n.Position }

func (*LocalStatement) stmtNode()      {}
func (*AssignmentStatement) stmtNode() {}
func (*FunctionDeclaration) stmtNode() {}
func (*CallStatement) stmtNode()       {}
func (*IfStatement) stmtNode()         {}
func (*ReturnStatement) stmtNode()     {}

func (*Identifier) exprNode()        {}
func (*MemberExpression) exprNode()  {}
func (*CallExpression) exprNode()    {}
func (*NumericLiteral) exprNode()    {}
func (*BooleanLiteral) exprNode()    {}
func (*NilLiteral) exprNode()        {}
func (*StringLiteral) exprNode()     {}

func (*TableConstructorExpression) exprNode() {}
func (*BinaryExpression) exprNode()  {}
func (*LogicalExpression) exprNode() {}
