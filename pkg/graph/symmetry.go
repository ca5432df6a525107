package graph

import (
	"cmp"
	"slices"
)

// Asymmetries lists the arcs that have no reverse arc, ordered by key.
// Degree, modularity and traffic-based cutting all assume this list is empty.
func (g *Graph) Asymmetries() []EdgeKey {
	var out []EdgeKey
	for id, n := range g.vertices {
		for to := range n.edges {
			if to == id {
				continue
			}
			if !g.vertices[to].HasNeighbor(id) {
				out = append(out, EdgeKey{From: id, To: to})
			}
		}
	}
	slices.SortFunc(out, CompareKeys)
	return out
}

// IsSymmetric reports whether every arc has a reverse arc.
func (g *Graph) IsSymmetric() bool {
	return len(g.Asymmetries()) == 0
}

// ValidateSymmetric returns an error wrapping ErrAsymmetricGraph when some arc
// lacks its reverse.
func (g *Graph) ValidateSymmetric() error {
	missing := g.Asymmetries()
	if len(missing) == 0 {
		return nil
	}
	return &GraphError{Op: "ValidateSymmetric", Edge: &missing[0], Count: len(missing), Cause: ErrAsymmetricGraph}
}

// Symmetrize adds every missing reverse arc with the same weight and length.
// It returns the number of arcs added.
func (g *Graph) Symmetrize() int {
	missing := g.Asymmetries()
	for _, k := range missing {
		e := g.vertices[k.From].edges[k.To]
		g.AddEdge(k.To, k.From)
		rev := g.vertices[k.To].edges[k.From]
		rev.Weight = e.Weight
		rev.Length = e.Length
	}
	return len(missing)
}

// CompareKeys orders arc keys by source then target.
func CompareKeys(a, b EdgeKey) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}
