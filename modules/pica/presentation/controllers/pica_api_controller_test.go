package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hseworks/picatrack/modules/core/domain/aggregates/actor"
	corepersistence "github.com/hseworks/picatrack/modules/core/infrastructure/persistence"
	picapersistence "github.com/hseworks/picatrack/modules/pica/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/pica/presentation/controllers"
	"github.com/hseworks/picatrack/modules/pica/services"
	"github.com/hseworks/picatrack/pkg/composables"
	"github.com/hseworks/picatrack/pkg/eventbus"
	"github.com/hseworks/picatrack/pkg/middleware"
)

type apiFixture struct {
	router *mux.Router
	actors *corepersistence.MemoryActorRepository

	user  *actor.Actor
	admin *actor.Actor
	other *actor.Actor
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()

	picas := picapersistence.NewMemoryPicaRepository()
	actors := corepersistence.NewMemoryActorRepository()
	ledger := picapersistence.NewMemoryHistoryRepository(picas, actors)
	bus := eventbus.NewEventPublisher(logrus.New())

	picaService := services.NewPicaService(picas, ledger, bus)
	historyService := services.NewHistoryService(ledger)

	orgA := uuid.New()
	orgB := uuid.New()

	f := &apiFixture{actors: actors}
	f.user = seedAPIActor(t, actors, orgA, "field engineer", actor.RoleUser)
	f.admin = seedAPIActor(t, actors, orgA, "site admin", actor.RoleAdmin)
	f.other = seedAPIActor(t, actors, orgB, "outsider", actor.RoleUser)

	router := mux.NewRouter()
	router.Use(middleware.ActorFromHeader(actors))
	controllers.NewPicaAPIController(picaService, historyService).Register(router)
	f.router = router
	return f
}

func seedAPIActor(t *testing.T, actors *corepersistence.MemoryActorRepository, tenantID uuid.UUID, name string, role actor.Role) *actor.Actor {
	t.Helper()
	ctx := composables.WithTenantID(context.Background(), tenantID)
	stored, err := actors.Create(ctx, actor.New(name,
		actor.WithOrganizationID(tenantID),
		actor.WithEmail(name+"@example.com"),
		actor.WithRole(role),
	))
	require.NoError(t, err)
	return stored
}

func (f *apiFixture) do(t *testing.T, as *actor.Actor, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if as != nil {
		req.Header.Set("X-Actor-ID", fmt.Sprintf("%d", as.ID()))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func createPayload(key string) map[string]any {
	return map[string]any{
		"business_key":        key,
		"project_site_id":     4,
		"issue":               "missing fire extinguisher",
		"person_in_charge_id": 2,
		"due_date":            time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestPicaAPICreate(t *testing.T) {
	f := setupAPI(t)

	t.Run("created", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodPost, "/api/picas", createPayload("PICA-A1"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "PICA-A1", body["business_key"])
		assert.Equal(t, "progress", body["status"])
		assert.Equal(t, f.user.OrganizationID().String(), body["organization_id"])
	})

	t.Run("duplicate key conflicts", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodPost, "/api/picas", createPayload("PICA-A1"))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodPost, "/api/picas", map[string]any{"issue": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/picas", bytes.NewBufferString("{"))
		req.Header.Set("X-Actor-ID", fmt.Sprintf("%d", f.user.ID()))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := f.do(t, nil, http.MethodPost, "/api/picas", createPayload("PICA-A2"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPicaAPIReadAndTenancy(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, f.user, http.MethodPost, "/api/picas", createPayload("PICA-B1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(float64)
	path := fmt.Sprintf("/api/picas/%d", int(id))

	t.Run("owner reads it back", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PICA-B1", decodeBody(t, rec)["business_key"])
	})

	t.Run("by business key", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodGet, "/api/picas/by-key/PICA-B1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("another organization gets 404", func(t *testing.T) {
		rec := f.do(t, f.other, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unauthenticated list is empty", func(t *testing.T) {
		rec := f.do(t, nil, http.MethodGet, "/api/picas", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody(t, rec)["items"])
	})

	t.Run("list filtered by status", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodGet, "/api/picas?status=progress", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["items"], 1)
	})
}

func TestPicaAPIUpdateAndHistory(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, f.user, http.MethodPost, "/api/picas", createPayload("PICA-C1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int(decodeBody(t, rec)["id"].(float64))
	path := fmt.Sprintf("/api/picas/%d", id)

	t.Run("status change lands in history", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodPatch, path, map[string]any{
			"status":  "complete",
			"comment": "fixed and inspected",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "complete", decodeBody(t, rec)["status"])

		rec = f.do(t, f.user, http.MethodGet, path+"/history", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeBody(t, rec)["items"].([]any)
		require.Len(t, items, 1)
		entry := items[0].(map[string]any)
		assert.Equal(t, "progress", entry["old_status"])
		assert.Equal(t, "complete", entry["new_status"])
		assert.Equal(t, "fixed and inspected", entry["comment"])
		assert.Equal(t, "field engineer", entry["actor_name"])
	})

	t.Run("invalid status is a validation failure", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodPatch, path, map[string]any{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("history of a foreign record is empty", func(t *testing.T) {
		rec := f.do(t, f.other, http.MethodGet, path+"/history", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody(t, rec)["items"])
	})
}

func TestPicaAPIDelete(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, f.user, http.MethodPost, "/api/picas", createPayload("PICA-D1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int(decodeBody(t, rec)["id"].(float64))
	path := fmt.Sprintf("/api/picas/%d", id)

	t.Run("user is forbidden", func(t *testing.T) {
		rec := f.do(t, f.user, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		rec := f.do(t, f.admin, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("second delete is a 404", func(t *testing.T) {
		rec := f.do(t, f.admin, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
