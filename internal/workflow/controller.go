package workflow

import "go.uber.org/zap"

// Controller translates canvas gestures into graph mutations. It does
// no structural validation of its own; that happens at build time.
type Controller struct {
	graph  *Graph
	logger *zap.Logger
}

func NewController(graph *Graph, logger *zap.Logger) *Controller {
	return &Controller{graph: graph, logger: logger}
}

// DropComponent handles a palette drop. A kind outside the catalog is
// ignored without error: the gesture simply produces no node.
func (c *Controller) DropComponent(kind Kind, pos Position) (Node, bool) {
	if _, ok := Lookup(kind); !ok {
		c.logger.Debug("ignoring drop of unknown component", zap.String("kind", string(kind)))
		return Node{}, false
	}
	node, err := c.graph.AddNode(kind, pos)
	if err != nil {
		c.logger.Warn("drop failed", zap.String("kind", string(kind)), zap.Error(err))
		return Node{}, false
	}
	return node, true
}

// Connect handles a drag between two node handles.
func (c *Controller) Connect(sourceID, targetID, sourceHandle, targetHandle string) (Connection, error) {
	return c.graph.AddConnection(sourceID, targetID, sourceHandle, targetHandle)
}
