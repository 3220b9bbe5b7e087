// Package scope tracks which identifiers are defined and used per lexical
// scope. A Store is exclusively owned by one verifier pass over one file;
// it is never shared or reused.
package scope

import (
	"github.com/gobwas/glob"

	"localint/internal/errors"
)

// GlobalDepth is the depth of the outermost scope. It always exists and is
// never popped.
const GlobalDepth = 0

type frame struct {
	defined map[string]struct{}
	used    map[string]struct{}
}

func newFrame() frame {
	return frame{
		defined: make(map[string]struct{}),
		used:    make(map[string]struct{}),
	}
}

// Store is an ordered stack of lexical scopes. Depth 0 is the global scope;
// inner scopes see outer definitions, never the other way around.
type Store struct {
	frames []frame

	// Whitelist patterns are consulted for the global scope only, so that a
	// configuration entry like "Game.*" covers a whole ambient API surface.
	patterns []glob.Glob
}

// NewStore returns a Store holding only the global scope, pre-populated
// with the given ambient names.
func NewStore(globals []string) *Store {
	s := &Store{frames: []frame{newFrame()}}
	for _, name := range globals {
		s.frames[GlobalDepth].defined[name] = struct{}{}
	}
	return s
}

// AddPattern installs a compiled whitelist pattern matched against names at
// global depth.
func (s *Store) AddPattern(g glob.Glob) {
	s.patterns = append(s.patterns, g)
}

// Depth returns the innermost scope depth.
func (s *Store) Depth() int {
	return len(s.frames) - 1
}

// Push appends a new empty scope and returns its depth.
func (s *Store) Push() int {
	s.frames = append(s.frames, newFrame())
	return s.Depth()
}

// Pop removes the innermost scope. The global scope cannot be removed.
func (s *Store) Pop() error {
	if len(s.frames) <= 1 {
		return errors.New(errors.CodeScopeUnderflow, "cannot pop the global scope")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

func (s *Store) checkDepth(depth int) error {
	if depth < 0 || depth >= len(s.frames) {
		return errors.Newf(errors.CodeInvalidDepth, "depth %d outside scope stack of size %d", depth, len(s.frames))
	}
	return nil
}

// Define records name as defined. Non-local definitions always land in the
// global scope regardless of the caller-supplied depth.
func (s *Store) Define(name string, depth int, isLocal bool) error {
	if err := s.checkDepth(depth); err != nil {
		return err
	}
	if !isLocal {
		depth = GlobalDepth
	}
	s.frames[depth].defined[name] = struct{}{}
	return nil
}

// IsVisible reports whether name is defined in any scope from the global
// scope through depth inclusive.
func (s *Store) IsVisible(name string, depth int) (bool, error) {
	if err := s.checkDepth(depth); err != nil {
		return false, err
	}
	for d := GlobalDepth; d <= depth; d++ {
		if _, ok := s.frames[d].defined[name]; ok {
			return true, nil
		}
	}
	for _, g := range s.patterns {
		if g.Match(name) {
			return true, nil
		}
	}
	return false, nil
}

// Use records a use of name at depth and reports whether the name was
// visible there. Analysis is best effort: an invisible name is still
// recorded so traversal can continue.
func (s *Store) Use(name string, depth int) (bool, error) {
	visible, err := s.IsVisible(name, depth)
	if err != nil {
		return false, err
	}
	s.frames[depth].used[name] = struct{}{}
	return visible, nil
}

// Declare is the pre-definition check: it reports whether name is already
// visible at the effective depth (global for non-local declarations). The
// caller turns a true result into a redefinition finding and a false result
// into a retraction of any pending use-before-definition finding.
func (s *Store) Declare(name string, depth int, isLocal bool) (already bool, err error) {
	if err := s.checkDepth(depth); err != nil {
		return false, err
	}
	if !isLocal {
		depth = GlobalDepth
	}
	return s.IsVisible(name, depth)
}

// MembersOf returns the suffixes of every member path defined under
// base+sep in any scope visible from depth, e.g. MembersOf("e1", ":", d)
// yields "SetHealth" when "e1:SetHealth" is defined. Used by the clone
// expansion.
func (s *Store) MembersOf(base string, sep string, depth int) ([]string, error) {
	if err := s.checkDepth(depth); err != nil {
		return nil, err
	}
	prefix := base + sep
	var suffixes []string
	for d := GlobalDepth; d <= depth; d++ {
		for name := range s.frames[d].defined {
			if len(name) > len(prefix) && name[:len(prefix)] == prefix {
				suffixes = append(suffixes, name[len(prefix):])
			}
		}
	}
	return suffixes, nil
}
