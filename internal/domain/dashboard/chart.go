package dashboard

// ChartPoint is one x/y pair on a chart
type ChartPoint struct {
	X string `json:"x"`
	Y int    `json:"y"`
}

// Chart is the renderable data set a panel hands to a charting client:
// an ordered point series plus presentation hints.
type Chart struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	// Presentation hints; clients may override them
	Height       int `json:"height"`
	PointSize    int `json:"point_size"`
	FontSize     int `json:"font_size"`
	TextInterval int `json:"text_interval"`

	Points []ChartPoint `json:"points"`
}

// NewChart creates a chart with default presentation hints
func NewChart(title, xLabel, yLabel string) *Chart {
	return &Chart{
		Title:        title,
		XLabel:       xLabel,
		YLabel:       yLabel,
		Height:       200,
		PointSize:    5,
		FontSize:     10,
		TextInterval: 5,
	}
}

// AddPoint appends a point; insertion order is preserved
func (c *Chart) AddPoint(x string, y int) {
	c.Points = append(c.Points, ChartPoint{X: x, Y: y})
}

// SetData replaces the point series
func (c *Chart) SetData(points []ChartPoint) {
	c.Points = points
}
