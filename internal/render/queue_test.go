package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrainSortsBySortingOrderThenSubmission(t *testing.T) {
	q := NewQueue()
	q.SubmitWorld(DrawRequest{Image: "a", SortingOrder: 1})
	q.SubmitWorld(DrawRequest{Image: "b", SortingOrder: 1})
	q.SubmitWorld(DrawRequest{Image: "c", SortingOrder: 0})

	world, _, _, _ := q.Drain()

	names := make([]string, len(world))
	for i, req := range world {
		names[i] = req.Image
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestDrainStabilityAtEqualOrder(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 20; i++ {
		q.SubmitWorld(DrawRequest{Image: string(rune('a' + i)), SortingOrder: 7})
	}

	world, _, _, _ := q.Drain()
	for i := 1; i < len(world); i++ {
		assert.Less(t, world[i-1].submission, world[i].submission,
			"equal sorting orders must keep submission order")
	}
}

func TestDrainResetsQueueAndCounter(t *testing.T) {
	q := NewQueue()
	q.SubmitWorld(DrawRequest{Image: "a"})
	q.SubmitText(TextRequest{Content: "hi"})
	q.SubmitPixel(PixelRequest{X: 1})
	q.Drain()

	world, screen, texts, pixels := q.Drain()
	assert.Empty(t, world)
	assert.Empty(t, screen)
	assert.Empty(t, texts)
	assert.Empty(t, pixels)

	q.SubmitWorld(DrawRequest{Image: "b"})
	world, _, _, _ = q.Drain()
	assert.Equal(t, 0, world[0].submission, "submission counter resets per frame")
}

func TestScreenAndWorldSortIndependently(t *testing.T) {
	q := NewQueue()
	q.SubmitScreen(DrawRequest{Image: "ui_hi", SortingOrder: 5})
	q.SubmitWorld(DrawRequest{Image: "w", SortingOrder: 9})
	q.SubmitScreen(DrawRequest{Image: "ui_lo", SortingOrder: 1})

	world, screen, _, _ := q.Drain()
	assert.Equal(t, "w", world[0].Image)
	assert.Equal(t, "ui_lo", screen[0].Image)
	assert.Equal(t, "ui_hi", screen[1].Image)
}

func TestTextQueueKeepsSubmissionOrder(t *testing.T) {
	q := NewQueue()
	q.SubmitText(TextRequest{Content: "first"})
	q.SubmitText(TextRequest{Content: "second"})

	_, _, texts, _ := q.Drain()
	assert.Equal(t, "first", texts[0].Content)
	assert.Equal(t, "second", texts[1].Content)
}

func TestClampChannel(t *testing.T) {
	assert.Equal(t, uint8(0), ClampChannel(-5))
	assert.Equal(t, uint8(255), ClampChannel(300))
	assert.Equal(t, uint8(128), ClampChannel(128))
}

func TestCameraProject(t *testing.T) {
	c := NewCamera()
	c.SetPosition(2, 1)
	c.SetZoom(2)

	x, y := c.Project(3, 1, 800, 600)
	assert.InDelta(t, 400+1*PixelsPerUnit*2, x, 1e-9)
	assert.InDelta(t, 300.0, y, 1e-9)

	c.SetZoom(0)
	assert.Equal(t, 2.0, c.Zoom(), "non-positive zoom is ignored")
}
