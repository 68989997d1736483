package graph

// FindAllRoutes finds every simple route from start to end with at most
// maxHops swaps using DFS with backtracking.
//
// A branch stops at the first arrival at end. When start == end the single
// token route [start] is returned. Duplicate neighbor entries are explored
// once per entry.
func FindAllRoutes[T comparable](routeMap RouteMap[T], start, end T, maxHops int) [][]T {
	if maxHops < 0 {
		return nil
	}

	// A simple path never holds more tokens than the map has sources plus end
	depth := min(maxHops, len(routeMap))

	f := &routeFinder[T]{
		routeMap: routeMap,
		end:      end,
		maxHops:  maxHops,
		path:     make([]T, 0, depth+1),
		visited:  make(map[T]bool),
	}
	f.dfs(start, 0)

	return f.routes
}

// routeFinder holds the per-call search state. It is never shared between calls.
type routeFinder[T comparable] struct {
	routeMap RouteMap[T]
	end      T
	maxHops  int

	path    []T
	visited map[T]bool
	routes  [][]T
}

func (f *routeFinder[T]) dfs(current T, depth int) {
	f.visited[current] = true
	f.path = append(f.path, current)

	if current == f.end {
		route := make([]T, len(f.path))
		copy(route, f.path)
		f.routes = append(f.routes, route)
	} else if depth < f.maxHops {
		for _, next := range f.routeMap[current] {
			if !f.visited[next] {
				f.dfs(next, depth+1)
			}
		}
	}

	// Backtrack so the token can be reused on a sibling branch
	f.path = f.path[:len(f.path)-1]
	f.visited[current] = false
}
