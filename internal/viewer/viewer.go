package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"galaxy-server/internal/camera"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/world"

	"github.com/gdamore/tcell/v2"
)

// A terminal cell stands for a CellWidth x CellHeight block of screen units,
// so the camera keeps the proportions of a pixel canvas.
const (
	CellWidth  = 8.0
	CellHeight = 16.0

	owner     = "viewer"
	wheelStep = 100.0
	helpLine  = "arrows/wasd pan  +/- zoom  b black hole  n system  space pause  q quit"
)

type Viewer struct {
	screen   tcell.Screen
	world    *world.World
	cam      *camera.Camera
	tickRate int
	paused   bool
	dragging bool
	buttons  tcell.ButtonMask
	info     string
	logger   *slog.Logger
}

func New(screen tcell.Screen, w *world.World, cam *camera.Camera, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Viewer{
		screen:   screen,
		world:    w,
		cam:      cam,
		tickRate: 60,
		logger:   logger.With("component", "viewer"),
	}
}

// Run ticks the world and redraws the screen until ctx is cancelled or the
// user quits. The caller owns screen Init and Fini.
func Run(ctx context.Context, screen tcell.Screen, w *world.World, cam *camera.Camera, logger *slog.Logger) error {
	return New(screen, w, cam, logger).Run(ctx)
}

func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	defer v.screen.DisableMouse()
	v.resize()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(v.tickRate))
	defer ticker.Stop()

	v.logger.Info("Viewer started", "tick", v.world.Tick())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.handle(ev) {
				v.logger.Info("Viewer closed", "tick", v.world.Tick())
				return nil
			}
		case <-ticker.C:
			v.frame()
		}
	}
}

// frame runs one full update followed by one full draw.
func (v *Viewer) frame() {
	if !v.paused {
		v.world.Step()
	}
	v.draw()
}

func (v *Viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.cam.Pan(-1, 0)
	case tcell.KeyRight:
		v.cam.Pan(1, 0)
	case tcell.KeyUp:
		v.cam.Pan(0, -1)
	case tcell.KeyDown:
		v.cam.Pan(0, 1)
	case tcell.KeyRune:
		return v.handleRune(r)
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case 'a', 'A':
		v.cam.Pan(-1, 0)
	case 'd', 'D':
		v.cam.Pan(1, 0)
	case 'w', 'W':
		v.cam.Pan(0, -1)
	case 's', 'S':
		v.cam.Pan(0, 1)
	case '+', '=':
		v.cam.ZoomBy(wheelStep)
	case '-', '_':
		v.cam.ZoomBy(-wheelStep)
	case ' ':
		v.paused = !v.paused
	case 'b', 'B':
		if b, err := v.world.CreateBlackHole(v.cam.Origin); err != nil {
			v.fail("create_black_hole", err)
		} else {
			v.info = fmt.Sprintf("Black Hole - Mass: %.2f", b.Mass)
		}
	case 'n', 'N':
		if s, err := v.world.CreateSolarSystem(v.cam.Origin); err != nil {
			v.fail("create_solar_system", err)
		} else {
			v.info = s.Star.Label()
		}
	}
	return true
}

// handleMouse turns tcell's button state into press, drag and release.
func (v *Viewer) handleMouse(x, y int, buttons tcell.ButtonMask) {
	switch {
	case buttons&tcell.WheelUp != 0:
		v.cam.ZoomBy(-wheelStep)
		return
	case buttons&tcell.WheelDown != 0:
		v.cam.ZoomBy(wheelStep)
		return
	}

	down := buttons&tcell.Button1 != 0
	wasDown := v.buttons&tcell.Button1 != 0
	v.buttons = buttons
	pt := v.cam.ScreenToWorld(cellCenter(x, y))

	switch {
	case down && !wasDown:
		v.press(pt)
	case down && v.dragging:
		if err := v.world.DragTo(owner, pt); err != nil {
			v.dragging = false
			v.fail("drag", err)
		}
	case !down && wasDown:
		v.world.EndDrag(owner)
		v.dragging = false
	}
}

func (v *Viewer) press(pt physics.Vector2) {
	res, err := v.world.Press(owner, pt)
	if err != nil {
		v.fail("press", err)
		return
	}
	v.dragging = res.Action == world.PressDrag
	v.info = res.Body.Info
}

func (v *Viewer) fail(operation string, err error) {
	v.info = err.Error()
	v.logger.Warn("Viewer command failed", "operation", operation, "error", err)
}

func (v *Viewer) resize() {
	cols, rows := v.screen.Size()
	v.cam.Resize(float64(cols)*CellWidth, float64(rows)*CellHeight)
}

func cellCenter(x, y int) physics.Vector2 {
	return physics.Vec((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	f := v.world.Frame(v.paused)

	for _, s := range f.Galaxy.Systems {
		st := s.Star
		v.disc(st.Position, st.Radius, '*', styleFor(st.Color).Bold(true))
		for _, p := range s.Planets {
			v.disc(p.Position, p.Radius, 'o', styleFor(p.Color))
		}
	}

	hole := tcell.StyleDefault.Foreground(tcell.ColorPurple)
	for _, b := range f.Galaxy.BlackHoles {
		v.ring(b.Position, b.EventHorizonRadius, '.', hole)
		v.disc(b.Position, 0, '@', hole.Bold(true))
	}

	v.status(f)
	v.screen.Show()
}

// disc fills every cell whose center lies inside the circle, and always the
// cell under the center so small bodies stay visible.
func (v *Viewer) disc(center physics.Vector2, radius float64, r rune, style tcell.Style) {
	if !v.cam.Visible(center, radius) {
		return
	}
	c := v.cam.WorldToScreen(center)
	rs := radius * v.cam.Zoom
	v.cells(c, rs, func(d float64) bool { return d <= rs }, r, style)
	v.put(c, r, style)
}

func (v *Viewer) ring(center physics.Vector2, radius float64, r rune, style tcell.Style) {
	if !v.cam.Visible(center, radius) {
		return
	}
	c := v.cam.WorldToScreen(center)
	rs := radius * v.cam.Zoom
	v.cells(c, rs, func(d float64) bool { return math.Abs(d-rs) <= CellWidth/2 }, r, style)
}

func (v *Viewer) cells(c physics.Vector2, rs float64, inside func(d float64) bool, r rune, style tcell.Style) {
	cols, rows := v.screen.Size()
	x0 := max(0, int(math.Floor((c.X-rs)/CellWidth)))
	x1 := min(cols-1, int(math.Floor((c.X+rs)/CellWidth)))
	y0 := max(0, int(math.Floor((c.Y-rs)/CellHeight)))
	y1 := min(rows-1, int(math.Floor((c.Y+rs)/CellHeight)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if inside(cellCenter(x, y).Dist(c)) {
				v.screen.SetContent(x, y, r, nil, style)
			}
		}
	}
}

func (v *Viewer) put(p physics.Vector2, r rune, style tcell.Style) {
	cols, rows := v.screen.Size()
	x := int(math.Floor(p.X / CellWidth))
	y := int(math.Floor(p.Y / CellHeight))
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

func (v *Viewer) status(f world.Frame) {
	planets := 0
	for _, s := range f.Galaxy.Systems {
		planets += len(s.Planets)
	}
	state := "running"
	if f.Paused {
		state = "paused"
	}

	top := fmt.Sprintf(" tick %d  systems %d  planets %d  black holes %d  zoom %.2f  %s ",
		f.Tick, len(f.Galaxy.Systems), planets, len(f.Galaxy.BlackHoles), v.cam.Zoom, state)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	v.text(0, 0, top, text.Reverse(true))

	_, rows := v.screen.Size()
	bottom := helpLine
	if v.info != "" {
		bottom = v.info
	}
	v.text(0, rows-1, bottom, text)
}

func (v *Viewer) text(x, y int, s string, style tcell.Style) {
	cols, _ := v.screen.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func styleFor(c colors.RGB) tcell.Style {
	r, g, b := c.Colorful().RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// Info returns the text shown for the last inspected or created body.
func (v *Viewer) Info() string {
	return v.info
}

func (v *Viewer) Paused() bool {
	return v.paused
}

// Inspect reports the body drawn under terminal cell (x, y).
func (v *Viewer) Inspect(x, y int) (galaxy.BodyInfo, bool) {
	return v.world.QueryBodyAt(v.cam.ScreenToWorld(cellCenter(x, y)))
}
