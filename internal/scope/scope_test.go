package scope

import (
	"testing"

	"github.com/gobwas/glob"

	"localint/internal/errors"
)

func TestStoreGlobals(t *testing.T) {
	s := NewStore([]string{"print", "pairs"})

	visible, err := s.IsVisible("print", GlobalDepth)
	if err != nil {
		t.Fatal(err)
	}
	if !visible {
		t.Error("expected whitelisted name to be visible at global depth")
	}

	visible, _ = s.IsVisible("unknown", GlobalDepth)
	if visible {
		t.Error("expected unknown name to be invisible")
	}
}

func TestStorePushPopBalance(t *testing.T) {
	s := NewStore(nil)
	if s.Depth() != GlobalDepth {
		t.Fatalf("expected initial depth 0, got %d", s.Depth())
	}

	inner := s.Push()
	if inner != 1 {
		t.Errorf("expected pushed depth 1, got %d", inner)
	}
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if s.Depth() != GlobalDepth {
		t.Errorf("expected depth 0 after pop, got %d", s.Depth())
	}
}

func TestStorePopUnderflow(t *testing.T) {
	s := NewStore(nil)
	err := s.Pop()
	if err == nil {
		t.Fatal("expected popping the global scope to fail")
	}
	if !errors.IsCode(err, errors.CodeScopeUnderflow) {
		t.Errorf("expected SCOPE_UNDERFLOW, got %v", err)
	}
}

func TestStoreInvalidDepth(t *testing.T) {
	s := NewStore(nil)

	if err := s.Define("x", 3, true); !errors.IsCode(err, errors.CodeInvalidDepth) {
		t.Errorf("expected INVALID_DEPTH from Define, got %v", err)
	}
	if _, err := s.IsVisible("x", -1); !errors.IsCode(err, errors.CodeInvalidDepth) {
		t.Errorf("expected INVALID_DEPTH from IsVisible, got %v", err)
	}
}

func TestStoreNonLocalForcedGlobal(t *testing.T) {
	s := NewStore(nil)
	inner := s.Push()

	if err := s.Define("g", inner, false); err != nil {
		t.Fatal(err)
	}
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}

	// The definition must have landed at depth 0 despite being made at
	// depth 1.
	visible, _ := s.IsVisible("g", GlobalDepth)
	if !visible {
		t.Error("expected non-local definition to be visible globally")
	}
}

func TestStoreLexicalShadowing(t *testing.T) {
	s := NewStore(nil)
	inner := s.Push()

	if err := s.Define("x", inner, true); err != nil {
		t.Fatal(err)
	}

	visible, _ := s.IsVisible("x", inner)
	if !visible {
		t.Error("expected inner definition visible at inner depth")
	}
	visible, _ = s.IsVisible("x", GlobalDepth)
	if visible {
		t.Error("outer scope must not see inner definitions")
	}
}

func TestStoreUseRecordsVisibility(t *testing.T) {
	s := NewStore([]string{"print"})

	visible, err := s.Use("print", GlobalDepth)
	if err != nil {
		t.Fatal(err)
	}
	if !visible {
		t.Error("expected use of whitelisted name to be visible")
	}

	visible, _ = s.Use("ghost", GlobalDepth)
	if visible {
		t.Error("expected use of unknown name to be invisible")
	}
}

func TestStoreDeclare(t *testing.T) {
	s := NewStore(nil)

	already, err := s.Declare("x", GlobalDepth, true)
	if err != nil {
		t.Fatal(err)
	}
	if already {
		t.Error("expected fresh name not to be already declared")
	}

	if err := s.Define("x", GlobalDepth, true); err != nil {
		t.Fatal(err)
	}
	already, _ = s.Declare("x", GlobalDepth, true)
	if !already {
		t.Error("expected redeclaration to be detected")
	}
}

func TestStorePatterns(t *testing.T) {
	s := NewStore(nil)
	s.AddPattern(glob.MustCompile("Game.*"))

	visible, _ := s.IsVisible("Game.GetService", GlobalDepth)
	if !visible {
		t.Error("expected pattern-matched name to be visible")
	}
	visible, _ = s.IsVisible("Workspace.Find", GlobalDepth)
	if visible {
		t.Error("expected non-matching name to be invisible")
	}
}

func TestStoreMembersOf(t *testing.T) {
	s := NewStore(nil)
	for _, name := range []string{"e1:SetHealth", "e1:SetSpeed", "e1.field", "e2:SetHealth"} {
		if err := s.Define(name, GlobalDepth, true); err != nil {
			t.Fatal(err)
		}
	}

	suffixes, err := s.MembersOf("e1", ":", GlobalDepth)
	if err != nil {
		t.Fatal(err)
	}
	if len(suffixes) != 2 {
		t.Fatalf("expected 2 method suffixes for e1, got %v", suffixes)
	}
	seen := map[string]bool{}
	for _, sfx := range suffixes {
		seen[sfx] = true
	}
	if !seen["SetHealth"] || !seen["SetSpeed"] {
		t.Errorf("unexpected suffixes %v", suffixes)
	}

	fields, err := s.MembersOf("e1", ".", GlobalDepth)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 || fields[0] != "field" {
		t.Errorf("expected field suffix, got %v", fields)
	}
}
