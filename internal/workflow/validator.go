package workflow

import "fmt"

// Required kinds, checked in order after the empty-graph check.
var requiredKinds = []Kind{KindUserQuery, KindOutput}

// Validate decides whether the graph is a buildable workflow. Checks
// run in a fixed order and the first failure wins. Connectivity between
// the entry and the output is deliberately not checked: a disconnected
// pair still builds, matching the behavior users of the original
// editor rely on.
func Validate(g *Graph) (*Snapshot, error) {
	snap := g.Snapshot()

	if len(snap.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	for _, kind := range requiredKinds {
		if _, ok := snap.NodeOfKind(kind); !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredKind, kind)
		}
	}
	return snap, nil
}
