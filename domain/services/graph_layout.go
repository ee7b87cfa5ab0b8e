package services

import (
	"math"

	"docspace/domain/core/entities"
	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// NodeCategory distinguishes folders from ordinary files in the graph view.
type NodeCategory string

const (
	CategoryFile   NodeCategory = "file"
	CategoryFolder NodeCategory = "folder"
)

const (
	// DefaultCenterX, DefaultCenterY and DefaultRadius place the circle on an 800x600 canvas.
	DefaultCenterX = 400.0
	DefaultCenterY = 300.0
	DefaultRadius  = 200.0

	// MaxLabelRunes is how much of a name is shown before it is cut with "...".
	MaxLabelRunes = 15

	minEdgeWeight     = 1.0
	weightPerStrength = 3.0
)

// LayoutConfig positions the layout circle.
type LayoutConfig struct {
	CenterX float64 `yaml:"center_x" json:"center_x"`
	CenterY float64 `yaml:"center_y" json:"center_y"`
	Radius  float64 `yaml:"radius" json:"radius"`
}

// DefaultLayoutConfig returns the 400/300/200 circle.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{CenterX: DefaultCenterX, CenterY: DefaultCenterY, Radius: DefaultRadius}
}

// Validate rejects non-finite values and a negative radius.
func (c LayoutConfig) Validate() error {
	for _, v := range []float64{c.CenterX, c.CenterY, c.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return pkgerrors.NewValidationError("layout values must be finite numbers")
		}
	}
	if c.Radius < 0 {
		return pkgerrors.NewValidationError("layout radius cannot be negative")
	}
	return nil
}

// GraphNode is the render-only view of one file.
type GraphNode struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Label    string                `json:"label"`
	Category NodeCategory          `json:"category"`
	Position valueobjects.Position `json:"position"`
}

// GraphEdge is the render-only view of one link.
type GraphEdge struct {
	ID       string  `json:"id,omitempty"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
	Weight   float64 `json:"weight"`
}

// GraphStats summarizes a computed view.
type GraphStats struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	FolderCount  int     `json:"folder_count"`
	Density      float64 `json:"density"`
	ClusterCount int     `json:"cluster_count"`
}

// GraphView is everything a client needs to draw a workspace graph.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats GraphStats  `json:"stats"`
	Empty bool        `json:"empty"`
}

// GraphLayoutEngine places files on a circle and resolves links into edges.
// It keeps no state between calls and is safe for concurrent use.
type GraphLayoutEngine struct {
	config LayoutConfig
}

// NewGraphLayoutEngine creates an engine for the given circle.
func NewGraphLayoutEngine(config LayoutConfig) (*GraphLayoutEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &GraphLayoutEngine{config: config}, nil
}

// NewDefaultGraphLayoutEngine uses DefaultLayoutConfig.
func NewDefaultGraphLayoutEngine() *GraphLayoutEngine {
	return &GraphLayoutEngine{config: DefaultLayoutConfig()}
}

// Config returns the circle the engine lays out on.
func (e *GraphLayoutEngine) Config() LayoutConfig {
	return e.config
}

// BuildGraph derives the graph view of files and links.
//
// Files keep their input order: file i sits at angle 2πi/N. Links whose source
// or target is not among files are left out without error. Every other link
// becomes an edge with weight max(1, 3·strength).
func (e *GraphLayoutEngine) BuildGraph(files []entities.FileRecord, links []entities.LinkRecord) (GraphView, error) {
	if len(files) == 0 {
		return GraphView{Nodes: []GraphNode{}, Edges: []GraphEdge{}, Empty: true}, nil
	}

	n := len(files)
	nodes := make([]GraphNode, n)
	index := make(map[string]int, n)
	folders := 0

	for i, f := range files {
		if f.ID == "" {
			return GraphView{}, pkgerrors.NewValidationErrorf("file at index %d has an empty id", i)
		}
		if _, dup := index[f.ID]; dup {
			return GraphView{}, pkgerrors.NewValidationErrorf("duplicate file id %q", f.ID)
		}
		index[f.ID] = i

		theta := float64(i) / float64(n) * 2 * math.Pi
		pos, err := valueobjects.PolarPosition(e.config.CenterX, e.config.CenterY, e.config.Radius, theta)
		if err != nil {
			return GraphView{}, err
		}

		category := CategoryFile
		if f.IsFolder {
			category = CategoryFolder
			folders++
		}

		nodes[i] = GraphNode{
			ID:       f.ID,
			Name:     f.Name,
			Label:    TruncateLabel(f.Name),
			Category: category,
			Position: pos,
		}
	}

	edges := make([]GraphEdge, 0, len(links))
	for _, l := range links {
		_, srcOK := index[l.SourceFileID]
		_, dstOK := index[l.TargetFileID]
		if !srcOK || !dstOK {
			continue
		}
		if math.IsNaN(l.StrengthScore) || math.IsInf(l.StrengthScore, 0) {
			return GraphView{}, pkgerrors.NewValidationErrorf("link %q has a non-finite strength", l.ID)
		}
		edges = append(edges, GraphEdge{
			ID:       l.ID,
			Source:   l.SourceFileID,
			Target:   l.TargetFileID,
			Strength: l.StrengthScore,
			Weight:   EdgeWeight(l.StrengthScore),
		})
	}

	return GraphView{
		Nodes: nodes,
		Edges: edges,
		Stats: computeStats(nodes, edges, index, folders),
	}, nil
}

// EdgeWeight is the stroke width for a link strength. There is no upper bound.
func EdgeWeight(strength float64) float64 {
	return math.Max(minEdgeWeight, strength*weightPerStrength)
}

// TruncateLabel shortens names longer than MaxLabelRunes for display.
func TruncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxLabelRunes {
		return name
	}
	return string(runes[:MaxLabelRunes]) + "..."
}

func computeStats(nodes []GraphNode, edges []GraphEdge, index map[string]int, folders int) GraphStats {
	n := len(nodes)
	stats := GraphStats{
		NodeCount:   n,
		EdgeCount:   len(edges),
		FolderCount: folders,
	}
	if n > 1 {
		stats.Density = float64(len(edges)) / float64(n*(n-1))
	}

	// Components are counted on the undirected graph.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	clusters := n
	for _, edge := range edges {
		a, b := find(index[edge.Source]), find(index[edge.Target])
		if a != b {
			parent[a] = b
			clusters--
		}
	}
	stats.ClusterCount = clusters
	return stats
}
