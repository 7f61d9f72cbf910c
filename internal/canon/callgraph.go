package canon

import "github.com/sunholo/sigil/internal/ast"
import "github.com/sunholo/sigil/internal/intern"

// sccGroups partitions f's top-level functions into strongly connected
// components of its call graph, in reverse-topological order (Tarjan's
// output order: every group comes after the groups it calls), so
// lowering can bind each component as one
// KindLetRec group. A singleton group is an ordinarily non-recursive
// function (or one that is only self-recursive, which a plain
// KindLetRec of one name already handles).
//
// Adapted from the teacher's internal/elaborate/scc.go, which runs the
// same analysis over the teacher's pointer-linked AST; here it walks
// the arena AST's ExprId graph instead of a typed node tree.
func sccGroups(f *ast.File, arena *ast.Arena) [][]intern.Name {
	g := newCallGraph()
	local := make(map[intern.Name]bool, len(f.Funcs))
	for _, fn := range f.Funcs {
		local[fn.Name] = true
		g.addNode(fn.Name)
	}
	for _, fn := range f.Funcs {
		for _, ref := range references(arena, fn.Body) {
			if local[ref] {
				g.addEdge(fn.Name, ref)
			}
		}
	}
	return g.sccs()
}

type callGraph struct {
	nodes []intern.Name
	edges map[intern.Name][]intern.Name
	seen  map[intern.Name]bool
}

func newCallGraph() *callGraph {
	return &callGraph{edges: make(map[intern.Name][]intern.Name), seen: make(map[intern.Name]bool)}
}

func (g *callGraph) addNode(n intern.Name) {
	if g.seen[n] {
		return
	}
	g.seen[n] = true
	g.nodes = append(g.nodes, n)
}

func (g *callGraph) addEdge(from, to intern.Name) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// sccs computes strongly connected components with Tarjan's algorithm.
func (g *callGraph) sccs() [][]intern.Name {
	var (
		index    int
		stack    []intern.Name
		indices  = make(map[intern.Name]int)
		lowlinks = make(map[intern.Name]int)
		onStack  = make(map[intern.Name]bool)
		out      [][]intern.Name
	)

	var strongconnect func(v intern.Name)
	strongconnect = func(v intern.Name) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				lowlinks[v] = minInt(lowlinks[v], lowlinks[w])
			} else if onStack[w] {
				lowlinks[v] = minInt(lowlinks[v], indices[w])
			}
		}

		if lowlinks[v] == indices[v] {
			var component []intern.Name
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			out = append(out, component)
		}
	}

	for _, n := range g.nodes {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// references collects every identifier referenced within id's subtree,
// including ones bound by enclosing let/lambda scopes (sccGroups only
// cares about which top-level names are reachable, not about
// shadowing; a local variable that happens to share a top-level
// function's name would add a spurious call-graph edge, which only
// ever over-groups functions into one KindLetRec component -- never
// unsound, since KindLetRec already tolerates non-recursive members).
func references(a *ast.Arena, id ast.ExprId) []intern.Name {
	if id == ast.NoExpr {
		return nil
	}
	node := a.Expr(id)
	var out []intern.Name
	switch node.Kind {
	case ast.ExprIdent:
		out = append(out, node.Name)
	case ast.ExprUnary:
		out = append(out, references(a, node.Left)...)
	case ast.ExprBinary:
		out = append(out, references(a, node.Left)...)
		out = append(out, references(a, node.Right)...)
	case ast.ExprLambda:
		out = append(out, references(a, node.Body)...)
	case ast.ExprCall:
		out = append(out, references(a, node.Callee)...)
		for _, argId := range a.ExprList(node.Args) {
			out = append(out, references(a, argId)...)
		}
	case ast.ExprCallNamed:
		out = append(out, references(a, node.Callee)...)
		for _, na := range a.NamedArgs(node.Args) {
			out = append(out, references(a, na.Value)...)
		}
	case ast.ExprLet, ast.ExprLetRec:
		out = append(out, references(a, node.Value)...)
		out = append(out, references(a, node.Body)...)
	case ast.ExprBlock:
		for _, stmtId := range a.StmtList(node.Stmts) {
			stmt := a.Stmt(stmtId)
			out = append(out, references(a, stmt.Value)...)
		}
	case ast.ExprIf:
		out = append(out, references(a, node.Cond)...)
		out = append(out, references(a, node.Then)...)
		out = append(out, references(a, node.Else)...)
	case ast.ExprMatch:
		out = append(out, references(a, node.Scrutinee)...)
		for _, armId := range a.ArmList(node.Arms) {
			arm := a.Arm(armId)
			out = append(out, references(a, arm.Guard)...)
			out = append(out, references(a, arm.Body)...)
		}
	case ast.ExprList, ast.ExprTuple:
		for _, elemId := range a.ExprList(node.Elems) {
			out = append(out, references(a, elemId)...)
		}
	case ast.ExprRecord:
		for _, f := range a.Fields(node.Fields) {
			out = append(out, references(a, f.Value)...)
		}
	case ast.ExprRecordUpdate:
		out = append(out, references(a, node.Base)...)
		for _, f := range a.Fields(node.Fields) {
			out = append(out, references(a, f.Value)...)
		}
	case ast.ExprRecordAccess:
		out = append(out, references(a, node.Record)...)
	case ast.ExprMethodCall:
		out = append(out, references(a, node.Record)...)
		for _, argId := range a.ExprList(node.Args) {
			out = append(out, references(a, argId)...)
		}
	case ast.ExprIndex:
		out = append(out, references(a, node.Record)...)
		out = append(out, references(a, node.Right)...)
	case ast.ExprSpread:
		out = append(out, references(a, node.Inner)...)
	}
	return out
}
