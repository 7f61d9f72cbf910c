package types

import "github.com/sunholo/sigil/internal/intern"

// Env is a stack of lexical scopes mapping names to schemes, grounded
// on the teacher's internal/types/env.go scope-stack design, adapted
// to intern.Name keys and Idx-based schemes.
type Env struct {
	scopes []map[intern.Name]Scheme
	rank   []int // rank frame introduced by each scope
}

// NewEnv creates an Env with one top-level (rank 0) scope.
func NewEnv() *Env {
	return &Env{
		scopes: []map[intern.Name]Scheme{make(map[intern.Name]Scheme)},
		rank:   []int{0},
	}
}

// Push enters a new scope at the given rank (the rank of the frame
// about to be introduced, e.g. a lambda body or a let's initialiser).
func (e *Env) Push(rank int) {
	e.scopes = append(e.scopes, make(map[intern.Name]Scheme))
	e.rank = append(e.rank, rank)
}

// Pop leaves the innermost scope.
func (e *Env) Pop() {
	e.scopes = e.scopes[:len(e.scopes)-1]
	e.rank = e.rank[:len(e.rank)-1]
}

// CurrentRank returns the rank frame of the innermost scope.
func (e *Env) CurrentRank() int { return e.rank[len(e.rank)-1] }

// Bind introduces name with scheme in the innermost scope.
func (e *Env) Bind(name intern.Name, s Scheme) {
	e.scopes[len(e.scopes)-1][name] = s
}

// Lookup searches scopes innermost-first.
func (e *Env) Lookup(name intern.Name) (Scheme, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if s, ok := e.scopes[i][name]; ok {
			return s, true
		}
	}
	return Scheme{}, false
}
