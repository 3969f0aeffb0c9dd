package world

import (
	"math"
	"math/rand"
	"testing"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
)

func newWorld(t *testing.T, systems ...physics.Vector2) *World {
	t.Helper()
	g := galaxy.New(nil)
	for _, pos := range systems {
		st, err := star.New(star.TypeSun, pos)
		if err != nil {
			t.Fatalf("star.New: %v", err)
		}
		g.AddSolarSystem(system.New(st, nil))
	}
	return New(g, DefaultConfig(), rand.New(rand.NewSource(1)), nil)
}

func TestAddPlanetAtOrbitalSpeed(t *testing.T) {
	w := newWorld(t, physics.Vec(0, 0), physics.Vec(1000, 1000))

	p, s, err := w.AddPlanetAt(100, 0, 10, colors.RGB{R: 1})
	if err != nil {
		t.Fatalf("AddPlanetAt: %v", err)
	}
	if s != w.Galaxy().Systems[0] {
		t.Fatal("planet attached to the wrong system")
	}
	if got := p.Velocity.Mag(); math.Abs(got-0.4472135955) > 1e-9 {
		t.Errorf("speed = %v, want ~0.4472", got)
	}
	if dot := p.Velocity.Dot(p.Position.Sub(s.Star.Position)); math.Abs(dot) > 1e-9 {
		t.Errorf("velocity not perpendicular, dot = %v", dot)
	}
	if len(s.Planets) != 1 || s.Planets[0] != p {
		t.Error("planet not appended to the system")
	}
}

func TestAddPlanetAtEmptyGalaxy(t *testing.T) {
	w := newWorld(t)
	_, _, err := w.AddPlanetAt(10, 10, 5, colors.RGB{})
	if errors.GetType(err) != errors.ErrorTypeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAddPlanetAtRejectsBadMass(t *testing.T) {
	w := newWorld(t, physics.Vec(0, 0))
	_, _, err := w.AddPlanetAt(10, 10, 0, colors.RGB{})
	if errors.GetType(err) != errors.ErrorTypeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if w.Galaxy().PlanetCount() != 0 {
		t.Fatal("rejected planet was inserted")
	}
}

func TestStepCountsTicksAndAbsorbs(t *testing.T) {
	w := newWorld(t, physics.Vec(5000, 5000))
	if _, _, err := w.AddPlanetAt(40, 0, 10, colors.RGB{}); err != nil {
		t.Fatal(err)
	}
	bh, _ := blackhole.New(physics.Vec(0, 0), 150, 50)
	w.Galaxy().AddBlackHole(bh)

	report := w.Step()

	if w.Tick() != 1 {
		t.Errorf("tick = %d", w.Tick())
	}
	if len(report.Absorbed) != 1 || w.Galaxy().PlanetCount() != 0 {
		t.Errorf("report = %+v, planets = %d", report, w.Galaxy().PlanetCount())
	}
	if f := w.Frame(false); f.Tick != 1 || len(f.Report.Absorbed) != 1 {
		t.Errorf("frame = %+v", f)
	}
}

func TestDragMovesPositionOnly(t *testing.T) {
	w := newWorld(t, physics.Vec(0, 0))
	p, _, _ := w.AddPlanetAt(150, 0, 10, colors.RGB{})
	vel := p.Velocity

	if err := w.BeginDrag("alice", p.ID); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if err := w.DragTo("alice", physics.Vec(-120, 40)); err != nil {
		t.Fatalf("DragTo: %v", err)
	}
	if p.Position != physics.Vec(-120, 40) || p.Velocity != vel {
		t.Fatalf("position=%+v velocity=%+v", p.Position, p.Velocity)
	}

	if err := w.BeginDrag("bob", p.ID); errors.GetType(err) != errors.ErrorTypeConflict {
		t.Errorf("second dragger err = %v, want conflict", err)
	}

	w.EndDrag("alice")
	if err := w.DragTo("alice", physics.Vec(0, 0)); errors.GetType(err) != errors.ErrorTypeConflict {
		t.Errorf("drag after end err = %v, want conflict", err)
	}
}

func TestDragEndsWhenPlanetDisappears(t *testing.T) {
	w := newWorld(t, physics.Vec(5000, 5000))
	p, _, _ := w.AddPlanetAt(10, 0, 10, colors.RGB{})
	if err := w.BeginDrag("alice", p.ID); err != nil {
		t.Fatal(err)
	}
	bh, _ := blackhole.New(physics.Vec(0, 0), 150, 50)
	w.Galaxy().AddBlackHole(bh)
	w.Step()

	err := w.DragTo("alice", physics.Vec(1, 1))
	if errors.GetType(err) != errors.ErrorTypeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, ok := w.Dragging("alice"); ok {
		t.Fatal("drag should have ended")
	}
}

func TestPress(t *testing.T) {
	w := newWorld(t, physics.Vec(0, 0))
	p, _, _ := w.AddPlanetAt(150, 0, 16, colors.RGB{})

	res, err := w.Press("alice", physics.Vec(151, 0))
	if err != nil || res.Action != PressDrag || res.Body.ID != p.ID {
		t.Fatalf("press on planet = %+v, %v", res, err)
	}
	if id, ok := w.Dragging("alice"); !ok || id != p.ID {
		t.Fatal("press on planet should begin a drag")
	}

	res, err = w.Press("bob", physics.Vec(1, 1))
	if err != nil || res.Action != PressInspect || res.Body.Kind != galaxy.KindStar {
		t.Fatalf("press on star = %+v, %v", res, err)
	}

	res, err = w.Press("bob", physics.Vec(0, 250))
	if err != nil || res.Action != PressSpawn {
		t.Fatalf("press on space = %+v, %v", res, err)
	}
	if res.Body.Mass < 5 || res.Body.Mass > 20 {
		t.Errorf("spawned mass %v outside [5, 20]", res.Body.Mass)
	}
	if w.Galaxy().PlanetCount() != 2 {
		t.Errorf("planets = %d, want 2", w.Galaxy().PlanetCount())
	}
}

func TestWorldExtensionCommands(t *testing.T) {
	w := newWorld(t)

	s, err := w.CreateSolarSystem(physics.Vec(300, 300))
	if err != nil {
		t.Fatalf("CreateSolarSystem: %v", err)
	}
	if len(s.Planets) != 8 || s.Star.Position != physics.Vec(300, 300) {
		t.Errorf("system = %d planets at %+v", len(s.Planets), s.Star.Position)
	}

	b, err := w.CreateBlackHole(physics.Vec(-50, 20))
	if err != nil {
		t.Fatalf("CreateBlackHole: %v", err)
	}
	if b.Mass < 100 || b.Mass > 200 || b.EventHorizonRadius != 50 {
		t.Errorf("black hole = %+v", b)
	}
	if len(w.Galaxy().BlackHoles) != 1 || len(w.Galaxy().Systems) != 1 {
		t.Error("commands did not extend the galaxy")
	}
}

func TestResetClearsDrags(t *testing.T) {
	w := newWorld(t, physics.Vec(0, 0))
	p, _, _ := w.AddPlanetAt(150, 0, 10, colors.RGB{})
	_ = w.BeginDrag("alice", p.ID)

	w.Reset(galaxy.New(nil))

	if _, ok := w.Dragging("alice"); ok {
		t.Fatal("drag survived reset")
	}
	if w.Galaxy().PlanetCount() != 0 {
		t.Fatal("galaxy not replaced")
	}
}
