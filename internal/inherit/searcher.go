package inherit

import (
	"fmt"

	"github.com/dominikbraun/graph"
)

// QueryOp selects the direction of an inheritance query.
type QueryOp string

const (
	OpBases      QueryOp = "bases"      // declared bases of the target
	OpSubclasses QueryOp = "subclasses" // classes declaring the target as a base
)

// Query limits.
const (
	DefaultDepth = 1
	MaxDepth     = 10
)

// QueryRequest asks for relatives of a class up to a traversal depth.
type QueryRequest struct {
	Op     QueryOp
	Target string
	Depth  int
}

// QueryResult is one related class or opaque base name, with the depth
// at which the traversal reached it.
type QueryResult struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

// Searcher answers inheritance queries over an edge set. It keeps the
// structure in a directed graph plus reverse-index maps so both
// directions are O(edges) to build and O(1) to step.
type Searcher struct {
	g graph.Graph[string, string]

	edges      []Edge
	bases      map[string][]string // class -> declared bases, in order
	subclasses map[string][]string // base -> declaring classes, in order
}

// NewSearcher builds a searcher from a resolved edge set.
func NewSearcher(edges []Edge) *Searcher {
	s := &Searcher{
		g:          graph.New(graph.StringHash, graph.Directed()),
		edges:      edges,
		bases:      make(map[string][]string),
		subclasses: make(map[string][]string),
	}

	for _, e := range edges {
		// Duplicate vertices are fine: classes repeat as bases and an
		// opaque base may be named by many classes.
		_ = s.g.AddVertex(e.Class)
		if _, ok := s.bases[e.Class]; !ok {
			s.bases[e.Class] = nil
		}
		for _, base := range e.Bases {
			_ = s.g.AddVertex(base)
			_ = s.g.AddEdge(e.Class, base)
			s.bases[e.Class] = append(s.bases[e.Class], base)
			s.subclasses[base] = append(s.subclasses[base], e.Class)
		}
	}
	return s
}

// Edges returns the underlying edge set in resolution order.
func (s *Searcher) Edges() []Edge { return s.edges }

// Graph exposes the directed inheritance graph for consumers that want
// their own traversals.
func (s *Searcher) Graph() graph.Graph[string, string] { return s.g }

// BasesOf returns the declared bases of a class, in declaration order.
func (s *Searcher) BasesOf(class string) []string {
	return append([]string(nil), s.bases[class]...)
}

// SubclassesOf returns the classes that declare base directly, in the
// order their edges were resolved.
func (s *Searcher) SubclassesOf(base string) []string {
	return append([]string(nil), s.subclasses[base]...)
}

// Known reports whether the name appears in the edge set as a class.
func (s *Searcher) Known(class string) bool {
	_, ok := s.bases[class]
	return ok
}

// KnownBase reports whether the name is declared as a base by any
// class. Opaque names (external or unresolved bases) are still valid
// subclass-query targets.
func (s *Searcher) KnownBase(base string) bool {
	_, ok := s.subclasses[base]
	return ok
}

// Query walks the edge set from the target in the requested direction,
// breadth-first up to the depth limit. Results are deterministic:
// neighbors are visited in declared order and each name is reported at
// the shallowest depth that reaches it.
func (s *Searcher) Query(req QueryRequest) ([]QueryResult, error) {
	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	var step func(string) []string
	switch req.Op {
	case OpBases:
		step = func(name string) []string { return s.bases[name] }
	case OpSubclasses:
		step = func(name string) []string { return s.subclasses[name] }
	default:
		return nil, fmt.Errorf("unknown inheritance query op %q", req.Op)
	}

	var results []QueryResult
	seen := map[string]bool{req.Target: true}
	frontier := []string{req.Target}

	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		for _, name := range frontier {
			for _, rel := range step(name) {
				if seen[rel] {
					continue
				}
				seen[rel] = true
				results = append(results, QueryResult{Name: rel, Depth: d})
				next = append(next, rel)
			}
		}
		frontier = next
	}
	return results, nil
}
