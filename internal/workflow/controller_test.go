package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestController_DropComponent(t *testing.T) {
	g := NewGraph()
	c := NewController(g, zap.NewNop())

	node, ok := c.DropComponent(KindKnowledgeBase, Position{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, KindKnowledgeBase, node.Kind)
	assert.Equal(t, Position{X: 5, Y: 5}, node.Position)
	assert.Equal(t, 1, g.NodeCount())
}

// A drop of a kind outside the catalog is silently ignored: no node,
// no error.
func TestController_DropUnknownKindIsNoop(t *testing.T) {
	g := NewGraph()
	c := NewController(g, zap.NewNop())

	_, ok := c.DropComponent(Kind("webhook"), Position{})
	assert.False(t, ok)
	assert.Equal(t, 0, g.NodeCount())
}

func TestController_Connect(t *testing.T) {
	g := NewGraph()
	c := NewController(g, zap.NewNop())

	a, ok := c.DropComponent(KindUserQuery, Position{})
	require.True(t, ok)
	b, ok := c.DropComponent(KindOutput, Position{})
	require.True(t, ok)

	conn, err := c.Connect(a.ID, b.ID, "response", "input")
	require.NoError(t, err)
	assert.Equal(t, a.ID, conn.SourceID)
	assert.Equal(t, b.ID, conn.TargetID)
	assert.Equal(t, "response", conn.SourceHandle)
	assert.Equal(t, "input", conn.TargetHandle)

	_, err = c.Connect(a.ID, "missing", "", "")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
