package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a placed component instance. Kind is immutable after
// creation; Position and Config change through Graph operations only.
type Node struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"type"`
	Position Position   `json:"position"`
	Config   NodeConfig `json:"-"`
}

// Connection is a directed edge between two node ports. Handles are
// empty for single-port nodes.
type Connection struct {
	ID           string `json:"id"`
	SourceID     string `json:"source"`
	TargetID     string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Snapshot is an immutable copy of the graph taken at build time. It is
// the unit handed to the build/execute service and shares no memory
// with the live graph.
type Snapshot struct {
	Nodes       []Node
	Connections []Connection
	TakenAt     time.Time
}

// NodeOfKind returns the first node of the given kind in insertion
// order, or false if none exists.
func (s *Snapshot) NodeOfKind(kind Kind) (Node, bool) {
	for _, n := range s.Nodes {
		if n.Kind == kind {
			return n, true
		}
	}
	return Node{}, false
}

// Graph owns the canonical node and connection state for one editing
// session. Every mutation is atomic under the internal mutex; callers
// receive value copies, never pointers into the graph.
type Graph struct {
	mu        sync.Mutex
	nodes     map[string]*Node
	nodeOrder []string
	conns     map[string]*Connection
	connOrder []string
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		conns: make(map[string]*Connection),
	}
}

// AddNode places a new node of the given kind with its catalog default
// configuration.
func (g *Graph) AddNode(kind Kind, pos Position) (Node, error) {
	comp, ok := Lookup(kind)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	node := &Node{
		ID:       uuid.New().String(),
		Kind:     kind,
		Position: pos,
		Config:   comp.DefaultConfig(),
	}
	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node.ID)
	return copyNode(node), nil
}

// MoveNode updates a node's canvas position. Config is untouched.
func (g *Graph) MoveNode(id string, pos Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	node.Position = pos
	return nil
}

// UpdateNodeConfig merges a partial option map into the node's config.
// Unknown keys and out-of-domain values fail the whole update and
// leave the stored config unchanged.
func (g *Graph) UpdateNodeConfig(id string, partial map[string]any) (Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	merged, err := node.Config.Merge(partial)
	if err != nil {
		return Node{}, err
	}
	node.Config = merged
	return copyNode(node), nil
}

// AddConnection wires source to target. Both endpoints must exist.
// Self-loops and duplicate connections are allowed; structural
// requirements are the validator's concern.
func (g *Graph) AddConnection(sourceID, targetID, sourceHandle, targetHandle string) (Connection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[sourceID]; !ok {
		return Connection{}, fmt.Errorf("%w: source %s", ErrNodeNotFound, sourceID)
	}
	if _, ok := g.nodes[targetID]; !ok {
		return Connection{}, fmt.Errorf("%w: target %s", ErrNodeNotFound, targetID)
	}

	conn := &Connection{
		ID:           uuid.New().String(),
		SourceID:     sourceID,
		TargetID:     targetID,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}
	g.conns[conn.ID] = conn
	g.connOrder = append(g.connOrder, conn.ID)
	return *conn, nil
}

// RemoveNode deletes a node together with every connection that
// references it.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	delete(g.nodes, id)
	g.nodeOrder = removeID(g.nodeOrder, id)

	kept := g.connOrder[:0]
	for _, cid := range g.connOrder {
		conn := g.conns[cid]
		if conn.SourceID == id || conn.TargetID == id {
			delete(g.conns, cid)
			continue
		}
		kept = append(kept, cid)
	}
	g.connOrder = kept
	return nil
}

// RemoveConnection deletes a single connection.
func (g *Graph) RemoveConnection(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.conns[id]; !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	delete(g.conns, id)
	g.connOrder = removeID(g.connOrder, id)
	return nil
}

// NodeByID returns a copy of the node, so selection can stay an id
// reference re-resolved on every read.
func (g *Graph) NodeByID(id string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(node), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.copyNodesLocked()
}

// Connections returns copies of all connections in insertion order.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.copyConnsLocked()
}

// NodeCount reports the number of placed nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Snapshot returns a deep copy of the current graph. Two successive
// snapshots with no mutation in between are structurally equal but
// independently owned.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return &Snapshot{
		Nodes:       g.copyNodesLocked(),
		Connections: g.copyConnsLocked(),
		TakenAt:     time.Now(),
	}
}

func (g *Graph) copyNodesLocked() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, copyNode(g.nodes[id]))
	}
	return out
}

func (g *Graph) copyConnsLocked() []Connection {
	out := make([]Connection, 0, len(g.connOrder))
	for _, id := range g.connOrder {
		out = append(out, *g.conns[id])
	}
	return out
}

func copyNode(n *Node) Node {
	out := *n
	out.Config = n.Config.clone()
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
