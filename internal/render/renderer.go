package render

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// Renderer owns the window and flushes the draw queue once per frame:
// world-space sprites, then screen-space sprites, then text, then pixels.
type Renderer struct {
	log    *zap.Logger
	title  string
	width  int
	height int
	clear  RGBA

	Queue    *Queue
	Camera   *Camera
	Textures *Textures
	Fonts    *Fonts
}

func NewRenderer(title string, width, height int, clear RGBA, resourcesDir string, log *zap.Logger) *Renderer {
	return &Renderer{
		log:      log,
		title:    title,
		width:    width,
		height:   height,
		clear:    clear,
		Queue:    NewQueue(),
		Camera:   NewCamera(),
		Textures: NewTextures(resourcesDir, log),
		Fonts:    NewFonts(resourcesDir, log),
	}
}

// Open creates the window. Must run before any texture or font load.
func (r *Renderer) Open() {
	rl.InitWindow(int32(r.width), int32(r.height), r.title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0) // scripts decide when the game quits
}

// ShouldClose reports whether the user asked to close the window.
func (r *Renderer) ShouldClose() bool { return rl.WindowShouldClose() }

// Close releases cached assets and the window.
func (r *Renderer) Close() {
	r.Textures.Unload()
	r.Fonts.Unload()
	rl.CloseWindow()
}

// Size returns the window dimensions in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Flush draws and presents everything queued this frame. The first missing
// asset aborts the flush with an error; the frame loop treats it as fatal.
func (r *Renderer) Flush() error {
	world, screen, texts, pixels := r.Queue.Drain()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(r.clear.R, r.clear.G, r.clear.B, r.clear.A))

	for _, req := range world {
		if err := r.drawSprite(req, true); err != nil {
			rl.EndDrawing()
			return err
		}
	}
	for _, req := range screen {
		if err := r.drawSprite(req, false); err != nil {
			rl.EndDrawing()
			return err
		}
	}
	for _, req := range texts {
		if err := r.drawText(req); err != nil {
			rl.EndDrawing()
			return err
		}
	}
	for _, req := range pixels {
		rl.DrawPixelV(
			rl.NewVector2(float32(req.X), float32(req.Y)),
			rl.NewColor(req.Color.R, req.Color.G, req.Color.B, req.Color.A))
	}

	rl.EndDrawing()
	return nil
}

func (r *Renderer) drawSprite(req DrawRequest, worldSpace bool) error {
	tex, err := r.Textures.Get(req.Image)
	if err != nil {
		return err
	}

	x, y := req.X, req.Y
	scaleX, scaleY := req.ScaleX, req.ScaleY
	if worldSpace {
		x, y = r.Camera.Project(req.X, req.Y, r.width, r.height)
		scaleX *= r.Camera.Zoom()
		scaleY *= r.Camera.Zoom()
	}

	// Negative scale flips the source rectangle so the destination size
	// stays positive.
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	if scaleX < 0 {
		src.Width = -src.Width
	}
	if scaleY < 0 {
		src.Height = -src.Height
	}

	dstW := math.Abs(scaleX) * float64(tex.Width)
	dstH := math.Abs(scaleY) * float64(tex.Height)
	dst := rl.NewRectangle(float32(x), float32(y), float32(dstW), float32(dstH))
	origin := rl.NewVector2(float32(req.PivotX*dstW), float32(req.PivotY*dstH))

	rl.DrawTexturePro(tex, src, dst, origin, float32(req.RotationDegrees),
		rl.NewColor(req.Color.R, req.Color.G, req.Color.B, req.Color.A))
	return nil
}

func (r *Renderer) drawText(req TextRequest) error {
	font, err := r.Fonts.Get(req.FontName, req.FontSize)
	if err != nil {
		return err
	}
	rl.DrawTextEx(font, req.Content,
		rl.NewVector2(float32(req.X), float32(req.Y)),
		float32(req.FontSize), 1,
		rl.NewColor(req.Color.R, req.Color.G, req.Color.B, req.Color.A))
	return nil
}
