package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/repository"
	"github.com/noah-isme/cps-portal-api/internal/service"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := kvstore.NewMemory()
	nop := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := []models.User{
		{ID: "fac-1", Email: "rao@college.edu", PasswordHash: string(hash), FullName: "Dr. Rao", Role: models.RoleFaculty, Department: "CSE", Active: true},
		{ID: "hod-1", Email: "iyer@college.edu", PasswordHash: string(hash), FullName: "Dr. Iyer", Role: models.RoleHOD, Department: "CSE", Active: true},
		{ID: "pri-1", Email: "menon@college.edu", PasswordHash: string(hash), FullName: "Dr. Menon", Role: models.RolePrincipal, Active: true},
	}

	userRepo, err := repository.NewUserRepository(ctx, store, nop, users)
	require.NoError(t, err)
	cpsRepo, err := repository.NewCPSRepository(ctx, store, nop, nil)
	require.NoError(t, err)
	leaveRepo, err := repository.NewLeaveRepository(ctx, store, nop, nil)
	require.NoError(t, err)
	ttRepo, err := repository.NewTimetableRepository(ctx, store, nop, nil)
	require.NoError(t, err)

	authSvc := service.NewAuthService(userRepo, nil, nop, service.AuthConfig{
		Secret:     "integration-secret",
		Expiration: time.Hour,
		Issuer:     "cps-portal-test",
	})
	cpsSvc := service.NewCPSService(cpsRepo, nil, nop)
	leaveSvc := service.NewLeaveService(leaveRepo, nil, nop)
	ttSvc := service.NewTimetableService(ttRepo, nil, nop, 2)
	dashSvc := service.NewDashboardService(cpsRepo, leaveRepo, ttRepo, nop)
	exportSvc := service.NewExportService(cpsRepo, nop)

	r := gin.New()
	RegisterRoutes(r, "/api/v1", authSvc, Handlers{
		Auth:      NewAuthHandler(authSvc),
		CPS:       NewCPSHandler(cpsSvc),
		Leave:     NewLeaveHandler(leaveSvc),
		Timetable: NewTimetableHandler(ttSvc),
		Dashboard: NewDashboardHandler(dashSvc),
		Export:    NewExportHandler(exportSvc),
	}, RouteOptions{DashboardEnabled: true, ExportsEnabled: true})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "changeme123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp.AccessToken
}

func TestLoginAndRejectBadPassword(t *testing.T) {
	r := newTestRouter(t)

	token := login(t, r, "rao@college.edu")
	assert.NotEmpty(t, token)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "rao@college.edu",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/cps", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCPSLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	faculty := login(t, r, "rao@college.edu")
	hod := login(t, r, "iyer@college.edu")

	rec := doJSON(t, r, http.MethodPost, "/api/v1/cps", faculty, map[string]string{
		"activity_type": "Journal Publication",
		"evidence":      "DOI 10.1000/x",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var entry models.CPSEntry
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, 15, entry.Credits)
	assert.Equal(t, models.CPSStatusDraft, entry.Status)

	// Faculty cannot reach the approval endpoint at all.
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cps/%s/approve", entry.ID), faculty, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cps/%s/submit", entry.ID), faculty, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/api/v1/cps/queue", hod, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cps/%s/approve", entry.ID), hod, map[string]string{"remarks": "verified"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, models.CPSStatusApproved, entry.Status)

	// Approving again conflicts: the entry is terminal.
	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cps/%s/approve", entry.ID), hod, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeaveQueueForbiddenForFaculty(t *testing.T) {
	r := newTestRouter(t)
	faculty := login(t, r, "rao@college.edu")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/leaves/queue", faculty, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardAndExport(t *testing.T) {
	r := newTestRouter(t)
	faculty := login(t, r, "rao@college.edu")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/dashboard", faculty, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/exports/cps-statement?format=csv", faculty, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestTimetableDraftFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	faculty := login(t, r, "rao@college.edu")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/timetables/draft", faculty, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/v1/timetables/draft", faculty, map[string]string{
		"department":    "CSE",
		"semester":      "5",
		"section":       "A",
		"academic_year": "2026-27",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPut, "/api/v1/timetables/draft/cells", faculty, map[string]string{
		"day":          "Monday",
		"time_slot_id": "p1",
		"subject_code": "CS501",
		"subject_name": "Operating Systems",
		"faculty_id":   "fac-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Break slots are rejected.
	rec = doJSON(t, r, http.MethodPut, "/api/v1/timetables/draft/cells", faculty, map[string]string{
		"day":          "Monday",
		"time_slot_id": "lb",
		"subject_code": "CS501",
		"subject_name": "Operating Systems",
		"faculty_id":   "fac-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/timetables/draft/submit", faculty, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var tt models.TimetableData
	require.NoError(t, json.Unmarshal(env.Data, &tt))
	assert.Equal(t, models.TimetableStatusPendingFaculty, tt.Status)
}
