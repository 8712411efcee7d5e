package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/annel0/funnyblocks/internal/auth"
	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	server *RestServer
	sim    *world.Simulation
	world  *world.Manager
	token  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	w := world.NewManager(entity.NewManager())
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			w.SetBlock(vec.Vec3{X: x, Z: z}, block.StoneBlockID, block.SideTop)
		}
	}
	sim := world.NewSimulation(world.Options{World: w, Tuning: config.DefaultBlocks()})

	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	server := NewRestServer(Config{
		Simulation: sim,
		Operators:  auth.Operators{"admin": hash},
		WorldName:  "test",
		Registerer: reg,
		Gatherer:   reg,
	})
	token, err := auth.GenerateJWT("admin", true)
	require.NoError(t, err)
	return &apiFixture{server: server, sim: sim, world: w, token: token}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, GenericResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)

	var resp GenericResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (f *apiFixture) tick() {
	f.sim.Tick(context.Background(), 0)
}

func TestHealthAndServerInfo(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := f.do(t, http.MethodGet, "/api/server", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "test", data["world"])
	assert.Contains(t, data, "uptime")
	assert.Contains(t, data, "simulation")
}

func TestLogin(t *testing.T) {
	f := newAPIFixture(t)

	w, resp := f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "hunter2"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := resp.Data.(map[string]interface{})["token"].(string)
	operator, valid, admin := auth.ValidateJWT(token)
	assert.True(t, valid)
	assert.True(t, admin)
	assert.Equal(t, "admin", operator)

	w, resp = f.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "admin", Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	w, _ = f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	f := newAPIFixture(t)
	body := DestroyRequest{Pos: vec.Vec3{}}

	w, _ := f.do(t, http.MethodPost, "/api/admin/destroy", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/admin/destroy", body, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	viewer, err := auth.GenerateJWT("viewer", false)
	require.NoError(t, err)
	w, _ = f.do(t, http.MethodPost, "/api/admin/destroy", body, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, 0, f.sim.Pending(), "отклоненные запросы не попадают в очередь")
}

func TestAdminPortalFlow(t *testing.T) {
	f := newAPIFixture(t)
	bus := eventbus.NewMemoryBus(16)
	eventbus.Init(bus)
	defer func() {
		eventbus.Init(nil)
		bus.Close()
	}()

	w, resp := f.do(t, http.MethodPost, "/api/admin/characters", SpawnRequest{Position: vec.Vec3Float{Y: 1}}, f.token)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint64(resp.Data.(map[string]interface{})["entity_id"].(float64))

	w, _ = f.do(t, http.MethodPost, "/api/admin/place", PlaceRequest{Pos: vec.Vec3{X: 1, Y: 1}, Block: "blueportal"}, f.token)
	require.Equal(t, http.StatusAccepted, w.Code)
	f.tick()
	assert.Equal(t, block.BluePortalBlockID, f.world.BlockAt(vec.Vec3{X: 1, Y: 1}).ID)

	w, _ = f.do(t, http.MethodPost, "/api/admin/activate", ActivateRequest{Instigator: id, Target: vec.Vec3{X: 1, Y: 1}}, f.token)
	require.Equal(t, http.StatusAccepted, w.Code)
	f.tick()

	w, resp = f.do(t, http.MethodGet, "/api/portals", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "BlueOnly", data["phase"])

	w, resp = f.do(t, http.MethodGet, "/api/entities/"+strconv.FormatUint(id, 10), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	notes := resp.Data.(map[string]interface{})["notifications"].([]interface{})
	require.Len(t, notes, 1)
	assert.Equal(t, "Activated Blue Portal. Activate an Orange Portal to complete pathway.", notes[0])

	w, _ = f.do(t, http.MethodPost, "/api/admin/destroy", DestroyRequest{Pos: vec.Vec3{X: 1, Y: 1}}, f.token)
	require.Equal(t, http.StatusAccepted, w.Code)
	f.tick()
	state, _ := f.sim.PortalState()
	assert.Nil(t, state.Blue)

	assert.GreaterOrEqual(t, bus.Metrics().Published, uint64(4), "действия администратора публикуются в шину")
}

func TestAdminValidation(t *testing.T) {
	f := newAPIFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/admin/place", PlaceRequest{Block: "Lava"}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/admin/place", PlaceRequest{Block: "Bouncer", Facing: "sideways"}, f.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/admin/activate", ActivateRequest{Instigator: 404}, f.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/admin/move", MoveRequest{EntityID: 404}, f.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/entities/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = f.do(t, http.MethodGet, "/api/entities/12345", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminMoveTriggersBouncer(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/api/admin/place", PlaceRequest{Pos: vec.Vec3{}, Block: "Bouncer"}, f.token)
	f.tick()
	id := f.sim.SpawnCharacter(vec.Vec3Float{X: 1, Y: 1}, 0)

	w, _ := f.do(t, http.MethodPost, "/api/admin/move", MoveRequest{EntityID: uint64(id), Position: vec.Vec3Float{Y: 1}}, f.token)
	require.Equal(t, http.StatusAccepted, w.Code)
	f.tick()

	view, ok := f.sim.Entity(id)
	require.True(t, ok)
	assert.InDelta(t, config.DefaultBlocks().BouncerForce, view.Movement.Velocity.Y, 1e-9)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodGet, "/health", nil, "")

	w, _ := f.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rest_api_http_request_duration_seconds")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", FormatUptime(5e9))
	assert.Equal(t, "2м 3с", FormatUptime(123e9))
	assert.Equal(t, "1ч 0м 1с", FormatUptime(3601e9))
	assert.Equal(t, "1д 1ч 0м 0с", FormatUptime(25*3600e9))
}
