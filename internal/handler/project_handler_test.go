package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"scenesync/internal/app/project"
	"scenesync/internal/app/scene"
	"scenesync/internal/configs"
	"scenesync/internal/pkg/errs"
	"scenesync/internal/pkg/resp"
	"scenesync/pkg/wire"
)

// memStore is an in-memory project.Store used to test the REST surface
// without a storage backend.
type memStore struct {
	projects map[string]*project.Scene
	failing  bool
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[string]*project.Scene)}
}

func (m *memStore) Get(_ context.Context, name string) (*project.Scene, error) {
	if m.failing {
		return nil, fmt.Errorf("backend unavailable")
	}
	sc, ok := m.projects[name]
	if !ok {
		return nil, project.ErrNotFound
	}
	return sc, nil
}

func (m *memStore) Put(_ context.Context, name string, sc *project.Scene) error {
	if m.failing {
		return fmt.Errorf("backend unavailable")
	}
	m.projects[name] = sc
	return nil
}

func (m *memStore) List(_ context.Context) ([]string, error) {
	if m.failing {
		return nil, fmt.Errorf("backend unavailable")
	}
	names := make([]string, 0, len(m.projects))
	for name := range m.projects {
		names = append(names, name)
	}
	return names, nil
}

func newProjectTestServer(t *testing.T, store project.Store) *httptest.Server {
	t.Helper()

	router := Router(&AppDeps{
		Registry: scene.NewRegistry(),
		Config: &configs.AppConfig{
			Environment:  "development",
			Port:         8080,
			ProjectStore: configs.StorePostgres,
		},
		Projects: store,
	})

	s := httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

func decodeResponse(t *testing.T, res *http.Response) resp.JSONResponse {
	t.Helper()

	defer res.Body.Close()
	var body resp.JSONResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestSaveAndLoadProject(t *testing.T) {
	store := newMemStore()
	s := newProjectTestServer(t, store)

	sc := project.Scene{Shapes: []wire.Shape{
		{ID: "s1", Kind: wire.KindCube, Position: wire.Vec3{0, 0.5, 0}, Scale: wire.Vec3{1, 1, 1}},
	}}
	payload, _ := json.Marshal(sc)

	res, err := http.Post(s.URL+"/api/projects/house", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("save request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if res.StatusCode != http.StatusOK || body.Code != 0 {
		t.Fatalf("expected successful save, got status %d code %d", res.StatusCode, body.Code)
	}

	res, err = http.Get(s.URL + "/api/projects/house")
	if err != nil {
		t.Fatalf("load request failed: %v", err)
	}
	body = decodeResponse(t, res)
	if body.Code != 0 {
		t.Fatalf("expected successful load, got code %d", body.Code)
	}

	loadedJSON, _ := json.Marshal(body.Data)
	var loaded project.Scene
	if err := json.Unmarshal(loadedJSON, &loaded); err != nil {
		t.Fatalf("invalid scene in response: %v", err)
	}
	if len(loaded.Shapes) != 1 || loaded.Shapes[0].ID != "s1" {
		t.Errorf("loaded scene mismatch: %+v", loaded)
	}
}

func TestLoadMissingProject(t *testing.T) {
	s := newProjectTestServer(t, newMemStore())

	res, err := http.Get(s.URL + "/api/projects/ghost")
	if err != nil {
		t.Fatalf("load request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if res.StatusCode != http.StatusNotFound || body.Code != errs.ErrProjectNotFound {
		t.Errorf("expected project-not-found, got status %d code %d", res.StatusCode, body.Code)
	}
}

func TestListProjects(t *testing.T) {
	store := newMemStore()
	store.projects["a"] = &project.Scene{}
	store.projects["b"] = &project.Scene{}
	s := newProjectTestServer(t, store)

	res, err := http.Get(s.URL + "/api/projects")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if body.Code != 0 {
		t.Fatalf("expected successful list, got code %d", body.Code)
	}

	names, ok := body.Data.([]any)
	if !ok || len(names) != 2 {
		t.Errorf("expected 2 project names, got %v", body.Data)
	}
}

func TestStoreFailureIsIsolated(t *testing.T) {
	store := newMemStore()
	store.failing = true
	s := newProjectTestServer(t, store)

	res, err := http.Get(s.URL + "/api/projects")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if res.StatusCode != http.StatusInternalServerError || body.Code != errs.ErrProjectStoreFailed {
		t.Errorf("expected store-failed error, got status %d code %d", res.StatusCode, body.Code)
	}
}

func TestProjectRoutesWithoutStore(t *testing.T) {
	s := newProjectTestServer(t, nil)

	res, err := http.Get(s.URL + "/api/projects")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if res.StatusCode != http.StatusNotImplemented || body.Code != errs.ErrProjectStoreDisabled {
		t.Errorf("expected store-disabled error, got status %d code %d", res.StatusCode, body.Code)
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	s := newProjectTestServer(t, newMemStore())

	res, err := http.Post(s.URL+"/api/projects/bad", "application/json", bytes.NewReader([]byte("{broken")))
	if err != nil {
		t.Fatalf("save request failed: %v", err)
	}
	body := decodeResponse(t, res)
	if body.Code != errs.ErrInvalidJSONFormat {
		t.Errorf("expected invalid-json error, got code %d", body.Code)
	}
}
