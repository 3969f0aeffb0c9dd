package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
	"galaxy-server/internal/world"
	"galaxy-server/internal/world/engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHandler starts a paused engine over a galaxy holding one sun per
// position given.
func newHandler(t *testing.T, systems ...physics.Vector2) (*WorldHandler, *engine.Engine) {
	t.Helper()
	return newHandlerWith(t, engine.Options{TickRate: 100, StartPaused: true}, systems...)
}

func newHandlerWith(t *testing.T, opts engine.Options, systems ...physics.Vector2) (*WorldHandler, *engine.Engine) {
	t.Helper()
	g := galaxy.New(quietLogger())
	for _, pos := range systems {
		st, err := star.New(star.TypeSun, pos)
		if err != nil {
			t.Fatalf("star.New: %v", err)
		}
		g.AddSolarSystem(system.New(st, quietLogger()))
	}
	w := world.New(g, world.DefaultConfig(), rand.New(rand.NewSource(1)), quietLogger())
	e := engine.New(w, opts, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return NewWorldHandler(e), e
}

func request(t *testing.T, method, target string, body any, session string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if session != "" {
		ctx := middleware.WithSession(req.Context(), &auth.Claims{SessionID: session, Role: auth.RoleViewer})
		req = req.WithContext(ctx)
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestGetFrame(t *testing.T) {
	h, _ := newHandler(t, physics.Vec(0, 0))

	rec := serve(h.GetFrame, request(t, http.MethodGet, "/api/world/frame", nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	f := decodeBody[world.Frame](t, rec)
	if len(f.Galaxy.Systems) != 1 || !f.Paused {
		t.Errorf("unexpected frame: %+v", f)
	}

	rec = serve(h.GetFrame, request(t, http.MethodPost, "/api/world/frame", nil, ""))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestGetBodyAt(t *testing.T) {
	h, _ := newHandler(t, physics.Vec(0, 0))

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"star", "/api/world/bodies?x=1&y=1", http.StatusOK},
		{"empty space", "/api/world/bodies?x=500&y=500", http.StatusNotFound},
		{"bad x", "/api/world/bodies?x=abc&y=0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h.GetBodyAt, request(t, http.MethodGet, tt.target, nil, ""))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				info := decodeBody[galaxy.BodyInfo](t, rec)
				if info.Kind != galaxy.KindStar {
					t.Errorf("kind = %s, want star", info.Kind)
				}
			}
		})
	}
}

func TestAddPlanet(t *testing.T) {
	h, _ := newHandler(t, physics.Vec(0, 0))

	mass := 10.0
	rec := serve(h.AddPlanet, request(t, http.MethodPost, "/api/world/planets",
		AddPlanetRequest{X: 100, Y: 0, Mass: &mass, Color: "#ff8800"}, "s1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	resp := decodeBody[PlanetResponse](t, rec)
	if got := resp.Planet.Velocity.Mag(); math.Abs(got-math.Sqrt(0.2)) > 1e-9 {
		t.Errorf("speed = %v, want sqrt(0.2)", got)
	}
	if resp.Planet.Color.Hex() != "#ff8800" {
		t.Errorf("color = %s", resp.Planet.Color.Hex())
	}

	bad := -1.0
	rec = serve(h.AddPlanet, request(t, http.MethodPost, "/api/world/planets",
		AddPlanetRequest{X: 1, Y: 1, Mass: &bad}, "s1"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative mass status = %d, want 400", rec.Code)
	}
}

func TestAddPlanetEmptyGalaxy(t *testing.T) {
	h, _ := newHandler(t)

	rec := serve(h.AddPlanet, request(t, http.MethodPost, "/api/world/planets", PointRequest{X: 1, Y: 1}, "s1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPressAndDrag(t *testing.T) {
	h, e := newHandler(t, physics.Vec(0, 0))

	rec := serve(h.Press, request(t, http.MethodPost, "/api/world/press", PointRequest{X: 150, Y: 0}, "alice"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("spawn status = %d: %s", rec.Code, rec.Body)
	}
	spawned := decodeBody[world.PressResult](t, rec)
	if spawned.Action != world.PressSpawn {
		t.Fatalf("action = %s, want spawn", spawned.Action)
	}

	rec = serve(h.Press, request(t, http.MethodPost, "/api/world/press", PointRequest{X: 150, Y: 0}, "alice"))
	pressed := decodeBody[world.PressResult](t, rec)
	if rec.Code != http.StatusOK || pressed.Action != world.PressDrag || pressed.Body.ID != spawned.Body.ID {
		t.Fatalf("second press = %d %+v", rec.Code, pressed)
	}

	rec = serve(h.Drag, request(t, http.MethodPost, "/api/world/drag", DragRequest{PlanetID: spawned.Body.ID}, "bob"))
	if rec.Code != http.StatusConflict {
		t.Errorf("competing drag status = %d, want 409", rec.Code)
	}

	rec = serve(h.Drag, request(t, http.MethodPut, "/api/world/drag", PointRequest{X: 400, Y: 400}, "alice"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("drag status = %d: %s", rec.Code, rec.Body)
	}

	var pos, vel physics.Vector2
	err := e.Exec(context.Background(), func(wd *world.World) error {
		p, _, _ := wd.Galaxy().FindPlanet(spawned.Body.ID)
		pos, vel = p.Position, p.Velocity
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if pos != physics.Vec(400, 400) {
		t.Errorf("position = %v, want (400, 400)", pos)
	}
	if vel.Mag() == 0 {
		t.Error("drag cleared the orbital velocity")
	}

	rec = serve(h.Drag, request(t, http.MethodDelete, "/api/world/drag", nil, "alice"))
	if rec.Code != http.StatusNoContent {
		t.Errorf("end drag status = %d", rec.Code)
	}

	rec = serve(h.Drag, request(t, http.MethodPut, "/api/world/drag", PointRequest{X: 1, Y: 1}, "alice"))
	if rec.Code != http.StatusConflict {
		t.Errorf("drag after end status = %d, want 409", rec.Code)
	}
}

func TestDragRequiresSession(t *testing.T) {
	h, _ := newHandler(t, physics.Vec(0, 0))

	rec := serve(h.Drag, request(t, http.MethodDelete, "/api/world/drag", nil, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTickPauseResume(t *testing.T) {
	h, e := newHandler(t, physics.Vec(0, 0))

	rec := serve(h.Tick, request(t, http.MethodPost, "/api/world/tick", nil, "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("tick status = %d", rec.Code)
	}
	if resp := decodeBody[TickResponse](t, rec); resp.Tick != 1 {
		t.Errorf("tick = %d, want 1", resp.Tick)
	}

	rec = serve(h.Resume, request(t, http.MethodPost, "/api/world/resume", nil, "admin"))
	if rec.Code != http.StatusOK || e.Paused() {
		t.Fatalf("resume status = %d paused = %v", rec.Code, e.Paused())
	}

	rec = serve(h.Pause, request(t, http.MethodPost, "/api/world/pause", nil, "admin"))
	if resp := decodeBody[StatusResponse](t, rec); !resp.Paused {
		t.Error("pause did not report paused")
	}
}

func TestTickWhileRunning(t *testing.T) {
	h, e := newHandlerWith(t, engine.Options{TickRate: engine.MaxTickRate}, physics.Vec(0, 0))

	var last int64
	for i := 0; i < 20; i++ {
		rec := serve(h.Tick, request(t, http.MethodPost, "/api/world/tick", nil, "admin"))
		if rec.Code != http.StatusOK {
			t.Fatalf("tick status = %d", rec.Code)
		}
		resp := decodeBody[TickResponse](t, rec)
		if resp.Tick <= last {
			t.Fatalf("request %d: tick %d did not advance past %d", i, resp.Tick, last)
		}
		if latest := e.Latest().Tick; resp.Tick > latest {
			t.Fatalf("request %d: tick %d ahead of latest frame %d", i, resp.Tick, latest)
		}
		last = resp.Tick
	}

	rec := serve(h.Pause, request(t, http.MethodPost, "/api/world/pause", nil, "admin"))
	resp := decodeBody[StatusResponse](t, rec)
	if !resp.Paused || resp.Tick < last {
		t.Fatalf("pause = %+v, want paused at tick >= %d", resp, last)
	}
	if got := e.Latest().Tick; got != resp.Tick {
		t.Errorf("paused engine moved from %d to %d", resp.Tick, got)
	}
}

func TestWorldExtension(t *testing.T) {
	h, e := newHandler(t, physics.Vec(0, 0))

	rec := serve(h.CreateBlackHole, request(t, http.MethodPost, "/api/world/blackholes", PointRequest{X: 900, Y: 0}, "admin"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("black hole status = %d", rec.Code)
	}
	bh := decodeBody[galaxy.BlackHoleState](t, rec)
	if bh.Mass < 100 || bh.Mass >= 200 || bh.EventHorizonRadius != 50 {
		t.Errorf("black hole = %+v", bh)
	}

	rec = serve(h.CreateSolarSystem, request(t, http.MethodPost, "/api/world/systems", PointRequest{X: -900, Y: 0}, "admin"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("system status = %d", rec.Code)
	}
	sys := decodeBody[galaxy.SystemState](t, rec)
	if len(sys.Planets) != world.DefaultConfig().PlanetsPerSystem {
		t.Errorf("planets = %d", len(sys.Planets))
	}

	if n := len(e.Latest().Galaxy.Systems); n != 2 {
		t.Errorf("systems in frame = %d, want 2", n)
	}
}
