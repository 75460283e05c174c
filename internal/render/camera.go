package render

// PixelsPerUnit converts world units to screen pixels at zoom 1.
const PixelsPerUnit = 100.0

// Camera positions the world-space view. Zoom scales around the window
// center; screen-space draws ignore it entirely.
type Camera struct {
	x    float64
	y    float64
	zoom float64
}

func NewCamera() *Camera {
	return &Camera{zoom: 1.0}
}

func (c *Camera) SetPosition(x, y float64) { c.x, c.y = x, y }
func (c *Camera) X() float64               { return c.x }
func (c *Camera) Y() float64               { return c.y }

func (c *Camera) SetZoom(zoom float64) {
	if zoom > 0 {
		c.zoom = zoom
	}
}

func (c *Camera) Zoom() float64 { return c.zoom }

// Project converts a world position to screen pixels for a window of the
// given size.
func (c *Camera) Project(worldX, worldY float64, screenW, screenH int) (float64, float64) {
	x := (worldX-c.x)*PixelsPerUnit*c.zoom + float64(screenW)/2
	y := (worldY-c.y)*PixelsPerUnit*c.zoom + float64(screenH)/2
	return x, y
}
