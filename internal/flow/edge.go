package flow

// Routing selects how an edge path is drawn.
type Routing string

// Edge routings. The zero value draws a direct line.
const (
	RoutingDirect Routing = ""
	RoutingTree   Routing = "tree"
	RoutingDetour Routing = "detour"
)

// EdgeStyle is the optional visual style of an edge.
type EdgeStyle struct {
	Stroke string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Width  float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
	Dash   string  `json:"strokeDasharray,omitempty" yaml:"strokeDasharray,omitempty"`
}

// LabelStyle is the optional text style of an edge label.
type LabelStyle struct {
	FontWeight int `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	FontSize   int `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
}

// Edge is a directed connector between two nodes of the same variant.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Routing    Routing
	Style      *EdgeStyle
	Label      string
	LabelStyle *LabelStyle
	Animated   bool
}

const (
	treeSpineRatio = 0.3
	detourRight    = 50
	detourDepth    = 150
)

// Route returns the waypoints of the edge path from src to dst.
//
// Tree edges turn at a vertical spine placed 30% of the way from source to
// target. Detour edges step right, drop below the canvas, run back under the
// target and climb up into it.
func Route(r Routing, src, dst Position) []Position {
	switch r {
	case RoutingTree:
		spineX := src.X + (dst.X-src.X)*treeSpineRatio

		return []Position{src, {X: spineX, Y: src.Y}, {X: spineX, Y: dst.Y}, dst}
	case RoutingDetour:
		bottomY := src.Y + detourDepth
		rightX := src.X + detourRight

		return []Position{src, {X: rightX, Y: src.Y}, {X: rightX, Y: bottomY}, {X: dst.X, Y: bottomY}, dst}
	default:
		return []Position{src, dst}
	}
}
