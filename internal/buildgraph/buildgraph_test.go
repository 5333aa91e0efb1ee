package buildgraph

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := New("demo")
	g.AddNode("app", map[string]string{"kind": "node"})
	g.AddEdge("app", "app#compile")

	assert.Equal(t, 2, g.NodeCount())

	var buf strings.Builder
	require.NoError(t, g.WriteDOT(&buf))
	out := buf.String()
	assert.Contains(t, out, `"app"`)
	assert.Contains(t, out, `"app" -> "app#compile"`)
}

func TestGraph_ConcurrentWrites(t *testing.T) {
	g := New("demo")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.AddNode("node", map[string]string{})
			g.AddEdge("node", "target")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 2, g.NodeCount())
}
