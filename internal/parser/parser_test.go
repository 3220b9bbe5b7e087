package parser

import (
	"testing"

	"localint/internal/ast"
	"localint/internal/errors"
)

func parse(t *testing.T, code string) *ast.Chunk {
	t.Helper()
	chunk, err := NewFrontend().ParseFile("test.lua", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	return chunk
}

func TestParseLocalDeclaration(t *testing.T) {
	chunk := parse(t, `local x, y = 1, nil`)

	if len(chunk.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(chunk.Body))
	}
	st, ok := chunk.Body[0].(*ast.LocalStatement)
	if !ok {
		t.Fatalf("expected LocalStatement, got %T", chunk.Body[0])
	}
	if len(st.Variables) != 2 || st.Variables[0].Name != "x" || st.Variables[1].Name != "y" {
		t.Errorf("unexpected variables %+v", st.Variables)
	}
	if len(st.Init) != 2 {
		t.Fatalf("expected 2 initializers, got %d", len(st.Init))
	}
	if _, ok := st.Init[0].(*ast.NumericLiteral); !ok {
		t.Errorf("expected numeric literal, got %T", st.Init[0])
	}
	if _, ok := st.Init[1].(*ast.NilLiteral); !ok {
		t.Errorf("expected nil literal, got %T", st.Init[1])
	}
}

func TestParseBareLocalDeclaration(t *testing.T) {
	chunk := parse(t, `local a, b`)

	st, ok := chunk.Body[0].(*ast.LocalStatement)
	if !ok {
		t.Fatalf("expected LocalStatement, got %T", chunk.Body[0])
	}
	if len(st.Variables) != 2 || len(st.Init) != 0 {
		t.Errorf("unexpected statement %+v", st)
	}
}

func TestParseAssignment(t *testing.T) {
	chunk := parse(t, `score = 10`)

	st, ok := chunk.Body[0].(*ast.AssignmentStatement)
	if !ok {
		t.Fatalf("expected AssignmentStatement, got %T", chunk.Body[0])
	}
	target, ok := st.Variables[0].(*ast.Identifier)
	if !ok || target.Name != "score" {
		t.Errorf("unexpected target %+v", st.Variables[0])
	}
	if len(st.Init) != 1 {
		t.Errorf("expected 1 initializer, got %d", len(st.Init))
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	chunk := parse(t, `
local function greet(name)
  print(name)
end
`)

	fn, ok := chunk.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", chunk.Body[0])
	}
	if !fn.IsLocal {
		t.Error("expected local function")
	}
	name, ok := fn.Identifier.(*ast.Identifier)
	if !ok || name.Name != "greet" {
		t.Errorf("unexpected function name %+v", fn.Identifier)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name != "name" {
		t.Errorf("unexpected parameters %+v", fn.Parameters)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ast.CallStatement); !ok {
		t.Errorf("expected CallStatement in body, got %T", fn.Body[0])
	}
}

func TestParseMethodFunctionName(t *testing.T) {
	chunk := parse(t, `
function Account:deposit(amount)
  return amount
end
`)

	fn, ok := chunk.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", chunk.Body[0])
	}
	if fn.IsLocal {
		t.Error("expected non-local function")
	}
	memberName, ok := fn.Identifier.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected member name, got %T", fn.Identifier)
	}
	if memberName.Indexer != ast.IndexMethod || memberName.Identifier.Name != "deposit" {
		t.Errorf("unexpected method name %+v", memberName)
	}
}

func TestParseMemberChains(t *testing.T) {
	chunk := parse(t, `game.players.count = 0`)

	st := chunk.Body[0].(*ast.AssignmentStatement)
	outer, ok := st.Variables[0].(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected member target, got %T", st.Variables[0])
	}
	if outer.Indexer != ast.IndexDot || outer.Identifier.Name != "count" {
		t.Errorf("unexpected outer member %+v", outer)
	}
	inner, ok := outer.Base.(*ast.MemberExpression)
	if !ok || inner.Identifier.Name != "players" {
		t.Errorf("unexpected inner member %+v", outer.Base)
	}
}

func TestParseConditional(t *testing.T) {
	chunk := parse(t, `
if ready and armed then
  fire()
elseif ready then
  arm()
else
  wait()
end
`)

	st, ok := chunk.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", chunk.Body[0])
	}
	if len(st.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(st.Clauses))
	}
	if _, ok := st.Clauses[0].Condition.(*ast.LogicalExpression); !ok {
		t.Errorf("expected logical condition, got %T", st.Clauses[0].Condition)
	}
	if st.Clauses[1].Condition == nil {
		t.Error("expected elseif clause to carry a condition")
	}
	if st.Clauses[2].Condition != nil {
		t.Error("expected else clause to carry no condition")
	}
	for i, clause := range st.Clauses {
		if len(clause.Body) != 1 {
			t.Errorf("clause %d: expected 1 statement, got %d", i, len(clause.Body))
		}
	}
}

func TestParseReturnAndBinary(t *testing.T) {
	chunk := parse(t, `
local function add(a, b)
  return a + b
end
`)

	fn := chunk.Body[0].(*ast.FunctionDeclaration)
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected ReturnStatement, got %T", fn.Body[0])
	}
	bin, ok := ret.Arguments[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected BinaryExpression, got %T", ret.Arguments[0])
	}
	if bin.Operator != "+" {
		t.Errorf("expected + operator, got %q", bin.Operator)
	}
}

func TestParseMethodCall(t *testing.T) {
	chunk := parse(t, `local e2 = e1:Clone()`)

	st := chunk.Body[0].(*ast.LocalStatement)
	callExpr, ok := st.Init[0].(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression initializer, got %T", st.Init[0])
	}
	callee, ok := callExpr.Base.(*ast.MemberExpression)
	if !ok || callee.Indexer != ast.IndexMethod || callee.Identifier.Name != "Clone" {
		t.Errorf("unexpected callee %+v", callExpr.Base)
	}
}

func TestParsePositions(t *testing.T) {
	chunk := parse(t, "local x = 1\nprint(x)\n")

	if got := chunk.Body[0].Pos().Line; got != 1 {
		t.Errorf("expected line 1, got %d", got)
	}
	if got := chunk.Body[1].Pos().Line; got != 2 {
		t.Errorf("expected line 2, got %d", got)
	}
}

func TestParseCommentsIgnored(t *testing.T) {
	chunk := parse(t, `
-- setup
local x = 1
-- use
print(x)
`)
	if len(chunk.Body) != 2 {
		t.Errorf("expected comments to be skipped, got %d statements", len(chunk.Body))
	}
}

func TestParseTableConstructor(t *testing.T) {
	chunk := parse(t, `local cfg = { speed, name = label, [3] = other, 7 }`)

	st, ok := chunk.Body[0].(*ast.LocalStatement)
	if !ok {
		t.Fatalf("expected LocalStatement, got %T", chunk.Body[0])
	}
	table, ok := st.Init[0].(*ast.TableConstructorExpression)
	if !ok {
		t.Fatalf("expected TableConstructorExpression, got %T", st.Init[0])
	}
	if len(table.Values) != 4 {
		t.Fatalf("expected 4 field values, got %d", len(table.Values))
	}
	if id, ok := table.Values[0].(*ast.Identifier); !ok || id.Name != "speed" {
		t.Errorf("unexpected first value %+v", table.Values[0])
	}
	if id, ok := table.Values[1].(*ast.Identifier); !ok || id.Name != "label" {
		t.Errorf("named field should keep only its value, got %+v", table.Values[1])
	}
}

func TestParseUnsupportedConstruct(t *testing.T) {
	_, err := NewFrontend().ParseFile("test.lua", []byte(`
for i = 1, 10 do
  print(i)
end
`))
	if err == nil {
		t.Fatal("expected unsupported construct error")
	}
	if !errors.IsCode(err, errors.CodeUnsupportedConstruct) {
		t.Errorf("expected UNSUPPORTED_CONSTRUCT, got %v", err)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := NewFrontend().ParseFile("test.lua", []byte(`local = =`))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !errors.IsCode(err, errors.CodeParseError) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}
