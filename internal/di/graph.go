package di

import (
	"github.com/xraph/keel/internal/errors"
)

// DependencyGraph orders components so dependencies come before dependents.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // insertion order
}

type node struct {
	name         string
	dependencies []string
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies. Adding a name twice merges the
// dependency lists.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	if n, ok := g.nodes[name]; ok {
		n.dependencies = append(n.dependencies, dependencies...)
		return
	}

	g.nodes[name] = &node{
		name:         name,
		dependencies: dependencies,
	}
	g.order = append(g.order, name)
}

// TopologicalSort returns nodes with every dependency before its dependents.
// Independent nodes keep insertion order. A cycle yields a cyclic dependency
// error carrying the offending path.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS; path holds the nodes currently on the stack.
func (g *DependencyGraph) visit(name string, visited map[string]bool, path []string, result *[]string) error {
	if visited[name] {
		return nil
	}

	for i, p := range path {
		if p == name {
			cycle := append(append([]string(nil), path[i:]...), name)
			return errors.ErrCyclicDependency(cycle)
		}
	}

	n := g.nodes[name]
	if n == nil {
		// not part of the graph, e.g. an optional or never created dependency
		return nil
	}

	path = append(path, name)
	for _, dep := range n.dependencies {
		if err := g.visit(dep, visited, path, result); err != nil {
			return err
		}
	}

	visited[name] = true
	*result = append(*result, name)

	return nil
}
