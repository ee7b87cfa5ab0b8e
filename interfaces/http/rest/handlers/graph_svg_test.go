package handlers

import (
	"bytes"
	"strings"
	"testing"

	"docspace/domain/core/valueobjects"
	domainservices "docspace/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(t *testing.T, id, label string, category domainservices.NodeCategory, x, y float64) domainservices.GraphNode {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	return domainservices.GraphNode{ID: id, Name: label, Label: label, Category: category, Position: pos}
}

func TestRenderGraphSVG(t *testing.T) {
	view := domainservices.GraphView{
		Nodes: []domainservices.GraphNode{
			node(t, "f1", "Specs", domainservices.CategoryFolder, 400, 100),
			node(t, "d1", "a<b>&c", domainservices.CategoryFile, 300, 250),
		},
		Edges: []domainservices.GraphEdge{
			{Source: "f1", Target: "d1", Strength: 1, Weight: 3},
			{Source: "f1", Target: "gone", Strength: 1, Weight: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderGraphSVG(&buf, view))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"`))
	assert.Equal(t, 1, strings.Count(out, "<line"), "edges to unknown nodes are skipped")
	assert.Contains(t, out, `x1="400.00" y1="100.00" x2="300.00" y2="250.00" stroke="#cbd5e1" stroke-width="3.00"`)
	assert.Contains(t, out, `r="12" fill="#f59e0b"`)
	assert.Contains(t, out, `r="8" fill="#3b82f6"`)
	assert.Contains(t, out, `y="125.00"`)
	assert.Contains(t, out, "a&lt;b&gt;&amp;c")
	assert.NotContains(t, out, "a<b>")

	assert.Less(t, strings.Index(out, "<line"), strings.Index(out, "<circle"), "edges are drawn under nodes")
}

func TestRenderGraphSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGraphSVG(&buf, domainservices.GraphView{Empty: true}))
	assert.NotContains(t, buf.String(), "<circle")
	assert.Contains(t, buf.String(), "</svg>")
}
