package sorter

import (
	"slices"

	"github.com/nicholas-fedor/composer/pkg/compose"
)

// Node colors for cycle detection.
const (
	white = iota // Not visited.
	gray         // On the current path.
	black        // Fully explored.
)

// CycleDetector detects cycles in a dependency graph.
type CycleDetector struct {
	graph  map[string][]string
	colors map[string]int
	cycles map[string]bool
	path   []string
}

// dfs performs DFS and detects cycles.
func (cd *CycleDetector) dfs(node string) {
	cd.colors[node] = gray

	cd.path = append(cd.path, node)
	for _, neighbor := range cd.graph[node] {
		switch cd.colors[neighbor] {
		case white:
			cd.dfs(neighbor)
		case gray:
			// Mark every node from the neighbor to here as cyclic.
			if idx := slices.Index(cd.path, neighbor); idx >= 0 {
				for _, n := range cd.path[idx:] {
					cd.cycles[n] = true
				}
			}
		}
	}

	cd.path = cd.path[:len(cd.path)-1]
	cd.colors[node] = black
}

// DetectCycles identifies all entries involved in circular dependencies.
//
// Parameters:
//   - entries: Entries whose dependency edges form the graph.
//
// Returns:
//   - map[string]bool: Labels that lie on a cycle.
func DetectCycles(entries []*compose.Entry) map[string]bool {
	cycleDetector := &CycleDetector{
		graph:  make(map[string][]string, len(entries)),
		colors: make(map[string]int, len(entries)),
		cycles: make(map[string]bool),
		path:   []string{},
	}

	for _, entry := range entries {
		cycleDetector.graph[entry.Label()] = entry.Requires()
		cycleDetector.colors[entry.Label()] = white
	}

	// Edges to labels outside the graph stay white but have no outgoing edges.
	for _, entry := range entries {
		if cycleDetector.colors[entry.Label()] == white {
			cycleDetector.dfs(entry.Label())
		}
	}

	return cycleDetector.cycles
}
