package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/snapshot"
	"galaxy-server/internal/world"
	"galaxy-server/internal/world/engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startEngine(t *testing.T) *engine.Engine {
	t.Helper()
	g := galaxy.New(quietLogger())
	cfg := galaxy.DefaultGenerateConfig()
	cfg.SolarSystems = 2
	cfg.PlanetsPerSystem = 2
	rng := rand.New(rand.NewSource(11))
	if err := galaxy.Generate(g, cfg, rng); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	w := world.New(g, world.DefaultConfig(), rng, quietLogger())
	e := engine.New(w, engine.Options{TickRate: 100, StartPaused: true}, nil, quietLogger())

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
	return e
}

func newService(t *testing.T) *snapshot.Service {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return snapshot.NewService(snapshot.NewRepository(db, quietLogger()), quietLogger())
}

func TestDisabledPersistence(t *testing.T) {
	h := NewSnapshotHandler(nil, startEngine(t), quietLogger())

	rec := httptest.NewRecorder()
	h.GetSnapshots(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestSaveAndRestore(t *testing.T) {
	e := startEngine(t)
	h := NewSnapshotHandler(newService(t), e, quietLogger())

	body, _ := json.Marshal(snapshot.CreateRequest{Name: "two suns"})
	rec := httptest.NewRecorder()
	h.CreateSnapshot(rec, httptest.NewRequest(http.MethodPost, "/api/snapshots", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	var saved snapshot.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if saved.PlanetCount != 4 {
		t.Errorf("planet count = %d, want 4", saved.PlanetCount)
	}

	if err := e.Reset(context.Background(), galaxy.New(quietLogger())); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots/"+saved.ID+"/restore", nil)
	req.SetPathValue("id", saved.ID)
	rec = httptest.NewRecorder()
	h.RestoreSnapshot(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d: %s", rec.Code, rec.Body)
	}

	if n := len(e.Latest().Galaxy.Systems); n != 2 {
		t.Errorf("systems after restore = %d, want 2", n)
	}

	rec = httptest.NewRecorder()
	h.GetSnapshots(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots", nil))
	var list []snapshot.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestRestoreUnknown(t *testing.T) {
	h := NewSnapshotHandler(newService(t), startEngine(t), quietLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots/x/restore", nil)
	req.SetPathValue("id", "3f1c1a52-52c1-4d8b-9f57-2f1d2a7b0e11")
	rec := httptest.NewRecorder()
	h.RestoreSnapshot(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
