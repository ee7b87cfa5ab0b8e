package handlers

import (
	"html/template"
	"io"

	domainservices "docspace/domain/services"
)

const (
	canvasWidth  = 800
	canvasHeight = 600

	folderRadius = 12
	fileRadius   = 8
	folderFill   = "#f59e0b"
	fileFill     = "#3b82f6"
	edgeStroke   = "#cbd5e1"
	labelOffset  = 25
)

var graphTemplate = template.Must(template.New("graph").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
{{- range .Lines}}
  <line x1="{{printf "%.2f" .X1}}" y1="{{printf "%.2f" .Y1}}" x2="{{printf "%.2f" .X2}}" y2="{{printf "%.2f" .Y2}}" stroke="{{$.Stroke}}" stroke-width="{{printf "%.2f" .Width}}" opacity="0.6"/>
{{- end}}
{{- range .Nodes}}
  <g id="node-{{.ID}}">
    <circle cx="{{printf "%.2f" .X}}" cy="{{printf "%.2f" .Y}}" r="{{.R}}" fill="{{.Fill}}" stroke="white" stroke-width="2"/>
    <text x="{{printf "%.2f" .X}}" y="{{printf "%.2f" .LabelY}}" text-anchor="middle" font-size="10" fill="#475569">{{.Label}}</text>
  </g>
{{- end}}
</svg>
`))

type svgLine struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

type svgNode struct {
	ID     string
	X, Y   float64
	LabelY float64
	R      int
	Fill   string
	Label  string
}

type svgGraph struct {
	Width, Height int
	Stroke        string
	Lines         []svgLine
	Nodes         []svgNode
}

// RenderGraphSVG draws view on an 800x600 canvas: edges first, then nodes
// with their labels below them.
func RenderGraphSVG(w io.Writer, view domainservices.GraphView) error {
	g := svgGraph{
		Width:  canvasWidth,
		Height: canvasHeight,
		Stroke: edgeStroke,
		Nodes:  make([]svgNode, 0, len(view.Nodes)),
		Lines:  make([]svgLine, 0, len(view.Edges)),
	}

	positions := make(map[string][2]float64, len(view.Nodes))
	for _, n := range view.Nodes {
		x, y := n.Position.X(), n.Position.Y()
		positions[n.ID] = [2]float64{x, y}

		node := svgNode{ID: n.ID, X: x, Y: y, LabelY: y + labelOffset, R: fileRadius, Fill: fileFill, Label: n.Label}
		if n.Category == domainservices.CategoryFolder {
			node.R, node.Fill = folderRadius, folderFill
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, e := range view.Edges {
		from, okFrom := positions[e.Source]
		to, okTo := positions[e.Target]
		if !okFrom || !okTo {
			continue
		}
		g.Lines = append(g.Lines, svgLine{X1: from[0], Y1: from[1], X2: to[0], Y2: to[1], Width: e.Weight})
	}

	return graphTemplate.Execute(w, g)
}
