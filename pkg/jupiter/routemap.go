package jupiter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// Decode expands the indexed route map into an adjacency map keyed by mint.
// Unparsable mint keys and out-of-range indices are skipped; the number of
// skipped entries is returned.
func (m *IndexedRouteMap) Decode() (map[solana.PublicKey][]solana.PublicKey, int) {
	keys := make([]solana.PublicKey, len(m.MintKeys))
	valid := make([]bool, len(m.MintKeys))
	skipped := 0

	for i, k := range m.MintKeys {
		pk, err := solana.PublicKeyFromBase58(k)
		if err != nil {
			skipped++
			continue
		}
		keys[i] = pk
		valid[i] = true
	}

	inRange := func(idx int) bool {
		return idx >= 0 && idx < len(keys) && valid[idx]
	}

	routes := make(map[solana.PublicKey][]solana.PublicKey, len(m.IndexedRouteMap))
	for from, tos := range m.IndexedRouteMap {
		if !inRange(from) {
			skipped++
			continue
		}

		neighbors := make([]solana.PublicKey, 0, len(tos))
		for _, to := range tos {
			if !inRange(to) {
				skipped++
				continue
			}
			neighbors = append(neighbors, keys[to])
		}
		routes[keys[from]] = neighbors
	}

	return routes, skipped
}

// LoadIndexedRouteMap reads an indexed route map saved as JSON.
func LoadIndexedRouteMap(path string) (*IndexedRouteMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route map: %w", err)
	}

	var routeMap IndexedRouteMap
	if err := json.Unmarshal(data, &routeMap); err != nil {
		return nil, fmt.Errorf("failed to parse route map: %w", err)
	}

	return &routeMap, nil
}
