// Package render implements deferred 2D drawing: scripts submit draw requests
// during the frame and the renderer flushes them once, sorted, after all
// update logic ran. Submission order breaks ties so equal sorting orders stay
// stable across frames.
package render

import "sort"

// RGBA is an 8-bit straight-alpha color.
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

var White = RGBA{R: 255, G: 255, B: 255, A: 255}

// ClampChannel converts a script-provided channel value to a byte, clamping
// out-of-range input instead of wrapping.
func ClampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// DrawRequest is one queued sprite draw. ScreenSpace requests ignore the
// camera and render above all world-space requests.
type DrawRequest struct {
	Image           string
	X               float64
	Y               float64
	RotationDegrees float64
	ScaleX          float64
	ScaleY          float64
	PivotX          float64
	PivotY          float64
	Color           RGBA
	SortingOrder    int

	submission int
}

// TextRequest is one queued text draw. Text renders in submission order above
// every sprite.
type TextRequest struct {
	Content  string
	X        float64
	Y        float64
	FontName string
	FontSize int
	Color    RGBA
}

// PixelRequest is one queued single-pixel draw, rendered last.
type PixelRequest struct {
	X     float64
	Y     float64
	Color RGBA
}

// Queue accumulates one frame's draw requests.
type Queue struct {
	world  []DrawRequest
	screen []DrawRequest
	texts  []TextRequest
	pixels []PixelRequest

	nextSubmission int
}

func NewQueue() *Queue {
	return &Queue{}
}

// SubmitWorld queues a camera-relative sprite draw.
func (q *Queue) SubmitWorld(req DrawRequest) {
	req.submission = q.nextSubmission
	q.nextSubmission++
	q.world = append(q.world, req)
}

// SubmitScreen queues a screen-space sprite draw (UI).
func (q *Queue) SubmitScreen(req DrawRequest) {
	req.submission = q.nextSubmission
	q.nextSubmission++
	q.screen = append(q.screen, req)
}

// SubmitText queues a screen-space text draw.
func (q *Queue) SubmitText(req TextRequest) {
	q.texts = append(q.texts, req)
}

// SubmitPixel queues a screen-space pixel draw.
func (q *Queue) SubmitPixel(req PixelRequest) {
	q.pixels = append(q.pixels, req)
}

// Drain returns this frame's requests with both sprite queues sorted by
// (sorting order, submission order) and resets the queue for the next frame.
func (q *Queue) Drain() (world, screen []DrawRequest, texts []TextRequest, pixels []PixelRequest) {
	sortRequests(q.world)
	sortRequests(q.screen)
	world, screen, texts, pixels = q.world, q.screen, q.texts, q.pixels
	q.world = nil
	q.screen = nil
	q.texts = nil
	q.pixels = nil
	q.nextSubmission = 0
	return world, screen, texts, pixels
}

func sortRequests(reqs []DrawRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].SortingOrder != reqs[j].SortingOrder {
			return reqs[i].SortingOrder < reqs[j].SortingOrder
		}
		return reqs[i].submission < reqs[j].submission
	})
}
