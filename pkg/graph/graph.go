package graph

import (
	"fmt"
	"strings"
)

// NewRouteMap creates an empty route map.
func NewRouteMap[T comparable]() RouteMap[T] {
	return make(RouteMap[T])
}

// AddEdge appends a directed edge from -> to. Duplicate edges are kept.
func (m RouteMap[T]) AddEdge(from, to T) {
	m[from] = append(m[from], to)
}

// Neighbors returns a copy of the tokens reachable from token in one hop.
func (m RouteMap[T]) Neighbors(token T) []T {
	neighbors, ok := m[token]
	if !ok {
		return nil
	}

	result := make([]T, len(neighbors))
	copy(result, neighbors)
	return result
}

// HasEdge reports whether a direct swap from -> to exists.
func (m RouteMap[T]) HasEdge(from, to T) bool {
	for _, n := range m[from] {
		if n == to {
			return true
		}
	}
	return false
}

// TokenCount returns the number of distinct tokens appearing in the map,
// either as a source or as a destination.
func (m RouteMap[T]) TokenCount() int {
	seen := make(map[T]struct{}, len(m))
	for from, neighbors := range m {
		seen[from] = struct{}{}
		for _, to := range neighbors {
			seen[to] = struct{}{}
		}
	}
	return len(seen)
}

// EdgeCount returns the number of directed edges in the map.
func (m RouteMap[T]) EdgeCount() int {
	count := 0
	for _, neighbors := range m {
		count += len(neighbors)
	}
	return count
}

// ValidateRoute reports whether every consecutive pair in route is connected
// by an edge of the map.
func (m RouteMap[T]) ValidateRoute(route []T) bool {
	for i := 0; i+1 < len(route); i++ {
		if !m.HasEdge(route[i], route[i+1]) {
			return false
		}
	}
	return true
}

// String returns a short summary of the map.
func (m RouteMap[T]) String() string {
	return fmt.Sprintf("RouteMap: %d tokens, %d edges", m.TokenCount(), m.EdgeCount())
}

// FormatRoute renders a route as "A -> B -> C".
func FormatRoute[T comparable](route []T) string {
	var sb strings.Builder
	for i, t := range route {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteString(fmt.Sprint(t))
	}
	return sb.String()
}
