// Package graph provides route discovery over a token adjacency map.
package graph

// RouteMap maps a token to the tokens reachable from it by one direct swap.
// A token missing from the map has no outgoing edges.
type RouteMap[T comparable] map[T][]T
