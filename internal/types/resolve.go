package types

// Resolve follows the Bound-variable chain with path compression,
// returning the representative Idx. Non-Var idxs resolve to
// themselves. This is the single choke point unify and the occurs
// check use to "resolve both sides through the bound-variable chain"
// per spec §4.D step 1.
func (p *Pool) Resolve(idx Idx) Idx {
	if idx == NONE {
		return NONE
	}
	if p.items[idx].tag != TagVar {
		return idx
	}
	st := p.vars[idx]
	if !st.Bound {
		return idx
	}
	root := p.Resolve(st.Value)
	if root != st.Value {
		// path compression: point directly at the root next time
		p.vars[idx] = VarState{Bound: true, Value: root}
	}
	return root
}
