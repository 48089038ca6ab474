package extrema

import "math"

// Band is an inclusive ratio range. A point target has Lo == Hi.
type Band struct {
	Lo, Hi float64
}

// Exact returns a zero-width band at v.
func Exact(v float64) Band { return Band{Lo: v, Hi: v} }

// Contains reports whether r lies in [Lo−tol, Hi+tol].
func (b Band) Contains(r, tol float64) bool {
	return r >= b.Lo-tol && r <= b.Hi+tol
}

// Template describes a harmonic pattern by its four leg ratios.
type Template struct {
	Name string
	ABXA Band
	BCAB Band
	CDBC Band
	XDXA Band
}

var (
	Gartley = Template{
		Name: "Gartley",
		ABXA: Exact(0.618),
		BCAB: Band{Lo: 0.382, Hi: 0.886},
		CDBC: Exact(1.272),
		XDXA: Exact(0.786),
	}
	Butterfly = Template{
		Name: "Butterfly",
		ABXA: Exact(0.786),
		BCAB: Band{Lo: 0.382, Hi: 0.886},
		CDBC: Exact(1.618),
		XDXA: Exact(1.27),
	}
)

// DefaultTemplates is the match order used by Scan callers: Gartley wins
// over Butterfly at the same D.
var DefaultTemplates = []Template{Gartley, Butterfly}

// Ratios are the leg ratios of an X-A-B-C-D window.
type Ratios struct {
	ABXA float64 `json:"ab_xa"`
	BCAB float64 `json:"bc_ab"`
	CDBC float64 `json:"cd_bc"`
	XDXA float64 `json:"xd_xa"`
}

// ComputeRatios derives the leg ratios from five points labelled X,A,B,C,D
// in order. It returns false when a denominator leg has zero length.
func ComputeRatios(p [5]Point) (Ratios, bool) {
	xa := math.Abs(p[1].Price - p[0].Price)
	ab := math.Abs(p[2].Price - p[1].Price)
	bc := math.Abs(p[3].Price - p[2].Price)
	cd := math.Abs(p[4].Price - p[3].Price)
	xd := math.Abs(p[4].Price - p[0].Price)
	if xa == 0 || ab == 0 || bc == 0 {
		return Ratios{}, false
	}
	return Ratios{ABXA: ab / xa, BCAB: bc / ab, CDBC: cd / bc, XDXA: xd / xa}, true
}

// Pattern is a matched harmonic instance.
type Pattern struct {
	Name    string   `json:"name"`
	Points  [5]Point `json:"points"`
	Ratios  Ratios   `json:"ratios"`
	Bullish bool     `json:"bullish"`
}

// X and D are the first and last points.
func (p Pattern) X() Point { return p.Points[0] }
func (p Pattern) D() Point { return p.Points[4] }

// Match tests five points against t. A pattern is bullish when X is priced
// above D. Widening tol never turns a match into a miss.
func Match(points [5]Point, t Template, tol float64) (Pattern, bool) {
	r, ok := ComputeRatios(points)
	if !ok {
		return Pattern{}, false
	}
	if !t.ABXA.Contains(r.ABXA, tol) ||
		!t.BCAB.Contains(r.BCAB, tol) ||
		!t.CDBC.Contains(r.CDBC, tol) ||
		!t.XDXA.Contains(r.XDXA, tol) {
		return Pattern{}, false
	}
	return Pattern{
		Name:    t.Name,
		Points:  points,
		Ratios:  r,
		Bullish: points[0].Price > points[4].Price,
	}, true
}

// Scan slides a five-point window over the position-ordered swing list and
// returns every (window, template) match, templates tried in order. Windows
// whose X..D span is shorter than minSpan bars are skipped. Only consecutive
// windows are tested.
func Scan(points []Point, templates []Template, tol float64, minSpan int) []Pattern {
	var found []Pattern
	for i := 0; i+5 <= len(points); i++ {
		var w [5]Point
		copy(w[:], points[i:i+5])
		if w[4].Index-w[0].Index < minSpan {
			continue
		}
		for _, t := range templates {
			if p, ok := Match(w, t, tol); ok {
				found = append(found, p)
			}
		}
	}
	return found
}
