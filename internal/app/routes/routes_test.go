package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/counselorhub/counselorhub/internal/app/controllers"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/app/routes"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/helpers"
	"github.com/counselorhub/counselorhub/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T, opts services.LifecycleOptions) *api {
	t.Helper()
	database := testutil.NewDatabase(t)
	repos := repositories.NewRepositories(database)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	svc := services.NewServices(database, repos, jwtService, opts)

	for _, u := range []dto.CreateUserRequest{
		{UserID: "ADM", Name: "Admin", Email: "admin@school.edu", Username: "admin", Role: "admin", Password: "password123"},
		{UserID: "CNS", Name: "Counselor", Email: "counselor@school.edu", Username: "counselor", Role: "counselor", Password: "password123"},
	} {
		u := u
		_, err := svc.UserService.CreateUser(context.Background(), &u)
		require.NoError(t, err)
	}

	router := gin.New()
	router.Use(middleware.Recovery(), middleware.CORS())
	routes.SetupRouter(router, controllers.NewControllers(svc, database.DB), middleware.NewAuthMiddleware(jwtService, svc.UserService))
	return &api{t: t, router: router}
}

func (a *api) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) login(username string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "password123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.AccessToken
}

// mustStatus asserts the status and decodes the body into out when given
func (a *api) mustStatus(w *httptest.ResponseRecorder, status int, out interface{}) {
	a.t.Helper()
	require.Equal(a.t, status, w.Code, w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out))
	}
}

// enroll creates a user and a student row for id in class classID
func (a *api) enroll(token, id, classID string) {
	a.t.Helper()
	a.mustStatus(a.do(http.MethodPost, "/api/users", token, gin.H{
		"userId": "U-" + id, "name": "Student " + id, "email": id + "@school.edu",
		"username": "user-" + id, "role": "student", "password": "password123",
	}), http.StatusCreated, nil)
	a.mustStatus(a.do(http.MethodPost, "/api/students", token, gin.H{
		"studentId": id, "userId": "U-" + id, "classId": classID,
	}), http.StatusCreated, nil)
}

type itemsPage struct {
	Data struct {
		Items []struct {
			StudentID string `json:"studentId"`
		} `json:"items"`
		Pagination dto.PaginationInfo `json:"pagination"`
	} `json:"data"`
}

func TestHealthAndAuthGuards(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})

	a.mustStatus(a.do(http.MethodGet, "/api/health", "", nil), http.StatusOK, nil)

	var errBody dto.ErrorResponse
	a.mustStatus(a.do(http.MethodGet, "/api/students", "", nil), http.StatusUnauthorized, &errBody)
	assert.False(t, errBody.Success)

	a.mustStatus(a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "nope-nope"}), http.StatusUnauthorized, &errBody)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errBody.Code)

	counselor := a.login("counselor")
	a.mustStatus(a.do(http.MethodGet, "/api/students", counselor, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodGet, "/api/admin/students/deleted", counselor, nil), http.StatusForbidden, nil)
	a.mustStatus(a.do(http.MethodPost, "/api/users", counselor, gin.H{}), http.StatusForbidden, nil)
}

func TestStudentLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})
	admin := a.login("admin")

	a.mustStatus(a.do(http.MethodPost, "/api/classes", admin, gin.H{"classId": "C1", "name": "10-A"}), http.StatusCreated, nil)
	a.enroll(admin, "S1", "C1")
	a.mustStatus(a.do(http.MethodPost, "/api/students/S1/counseling-sessions", admin, gin.H{
		"sessionDate": "2025-09-03T09:00:00Z", "sessionType": "individual",
	}), http.StatusCreated, nil)
	a.mustStatus(a.do(http.MethodPost, "/api/students/S1/behavior-records", admin, gin.H{
		"incidentDate": "2025-09-04T09:00:00Z", "behaviorType": "tardiness",
	}), http.StatusCreated, nil)

	// soft delete moves the student to the deleted view
	a.mustStatus(a.do(http.MethodDelete, "/api/students/S1", admin, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodGet, "/api/students/S1", admin, nil), http.StatusNotFound, nil)
	a.mustStatus(a.do(http.MethodDelete, "/api/students/S1", admin, nil), http.StatusNotFound, nil)

	var deleted itemsPage
	a.mustStatus(a.do(http.MethodGet, "/api/admin/students/deleted", admin, nil), http.StatusOK, &deleted)
	require.Len(t, deleted.Data.Items, 1)
	assert.Equal(t, "S1", deleted.Data.Items[0].StudentID)
	assert.EqualValues(t, 1, deleted.Data.Pagination.TotalItems)

	a.mustStatus(a.do(http.MethodGet, "/api/admin/students/deleted/S1", admin, nil), http.StatusOK, nil)

	// restore brings it back, a second restore is an invalid state
	a.mustStatus(a.do(http.MethodPut, "/api/admin/students/S1/restore", admin, nil), http.StatusOK, nil)
	var errBody dto.ErrorResponse
	a.mustStatus(a.do(http.MethodPut, "/api/admin/students/S1/restore", admin, nil), http.StatusBadRequest, &errBody)
	assert.Equal(t, dto.ErrorCodeInvalidState, errBody.Code)
	assert.Equal(t, "Student S1 is already active", errBody.Error)

	// the class is still referenced
	a.mustStatus(a.do(http.MethodDelete, "/api/admin/classes/C1/hard-delete", admin, nil), http.StatusConflict, &errBody)
	assert.Equal(t, dto.ErrorCodeConflict, errBody.Code)

	var hard dto.HardDeleteStudentResponse
	a.mustStatus(a.do(http.MethodDelete, "/api/admin/students/S1/hard-delete", admin, nil), http.StatusOK, &hard)
	assert.True(t, hard.Success)
	assert.Equal(t, dto.HardDeleteWarning, hard.Warning)
	require.NotNil(t, hard.Details)
	assert.True(t, hard.Details.UserPreserved)
	assert.EqualValues(t, 1, hard.Details.DeletedRecords["counseling_sessions"])
	assert.EqualValues(t, 1, hard.Details.DeletedRecords["behavior_records"])
	assert.EqualValues(t, 0, hard.Details.DeletedRecords["career_assessments"])

	a.mustStatus(a.do(http.MethodGet, "/api/students/S1/counseling-sessions", admin, nil), http.StatusNotFound, nil)
	a.mustStatus(a.do(http.MethodGet, "/api/users/U-S1", admin, nil), http.StatusOK, nil)

	a.mustStatus(a.do(http.MethodDelete, "/api/admin/classes/C1/hard-delete", admin, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodGet, "/api/classes/C1", admin, nil), http.StatusNotFound, nil)
}

func TestBulkHardDeleteOverHTTP(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})
	admin := a.login("admin")
	a.mustStatus(a.do(http.MethodPost, "/api/classes", admin, gin.H{"classId": "C1", "name": "10-A"}), http.StatusCreated, nil)
	a.enroll(admin, "S1", "C1")
	a.enroll(admin, "S2", "C1")

	var bulk dto.BulkHardDeleteResponse
	w := a.do(http.MethodDelete, "/api/admin/students/bulk-hard-delete", admin, gin.H{
		"studentIds": []string{"S1", "nonexistent", "S2"},
	})
	a.mustStatus(w, http.StatusOK, &bulk)
	assert.True(t, bulk.Success)
	assert.Equal(t, 2, bulk.DeletedCount)
	assert.Equal(t, []string{"Student nonexistent not found"}, bulk.Errors)
	assert.Equal(t, "2 of 3 students permanently deleted", bulk.Message)
	require.Len(t, bulk.Results, 3)
	assert.False(t, bulk.Results[1].Success)

	// per-item counts use the same key as the single hard delete
	var raw struct {
		Results []map[string]json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw.Results[0], "deleted_records")
	assert.NotContains(t, raw.Results[0], "deletedRecords")

	var errBody dto.ErrorResponse
	a.mustStatus(a.do(http.MethodDelete, "/api/admin/students/bulk-hard-delete", admin, gin.H{
		"studentIds": []string{},
	}), http.StatusBadRequest, &errBody)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errBody.Code)
}

func TestRequireSoftDeleteOverHTTP(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{RequireSoftDelete: true})
	admin := a.login("admin")
	a.enroll(admin, "S1", "")

	var errBody dto.ErrorResponse
	a.mustStatus(a.do(http.MethodDelete, "/api/admin/students/S1/hard-delete", admin, nil), http.StatusBadRequest, &errBody)
	assert.Equal(t, dto.ErrorCodeInvalidState, errBody.Code)

	a.mustStatus(a.do(http.MethodDelete, "/api/students/S1", admin, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodDelete, "/api/admin/students/S1/hard-delete", admin, nil), http.StatusOK, nil)
}

func TestDeletedUsersAndRestore(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})
	admin := a.login("admin")

	a.mustStatus(a.do(http.MethodDelete, "/api/users/CNS", admin, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "counselor", "password": "password123"}), http.StatusForbidden, nil)

	var page struct {
		Data struct {
			Items []struct {
				UserID string `json:"userId"`
			} `json:"items"`
		} `json:"data"`
	}
	a.mustStatus(a.do(http.MethodGet, "/api/admin/users/deleted", admin, nil), http.StatusOK, &page)
	require.Len(t, page.Data.Items, 1)
	assert.Equal(t, "CNS", page.Data.Items[0].UserID)

	a.mustStatus(a.do(http.MethodPut, "/api/admin/users/CNS/restore", admin, nil), http.StatusOK, nil)
	a.login("counselor")
}

func TestSoftDeletedUserTokenRejected(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})
	admin := a.login("admin")
	counselor := a.login("counselor")

	a.mustStatus(a.do(http.MethodDelete, "/api/users/CNS", admin, nil), http.StatusOK, nil)

	var errBody dto.ErrorResponse
	a.mustStatus(a.do(http.MethodPost, "/api/classes", counselor, gin.H{"classId": "C1", "name": "10-A"}), http.StatusForbidden, &errBody)
	assert.Equal(t, dto.ErrorCodeForbidden, errBody.Code)
	assert.Equal(t, "Account is disabled", errBody.Error)
	a.mustStatus(a.do(http.MethodGet, "/api/students", counselor, nil), http.StatusForbidden, nil)

	// the same token works again once the account is restored
	a.mustStatus(a.do(http.MethodPut, "/api/admin/users/CNS/restore", admin, nil), http.StatusOK, nil)
	a.mustStatus(a.do(http.MethodPost, "/api/classes", counselor, gin.H{"classId": "C1", "name": "10-A"}), http.StatusCreated, nil)
}

func TestHugePageNumbers(t *testing.T) {
	a := newAPI(t, services.LifecycleOptions{})
	admin := a.login("admin")

	for _, page := range []string{"9223372036854775807", "461168601842738791"} {
		var resp itemsPage
		a.mustStatus(a.do(http.MethodGet, "/api/admin/students/deleted?page="+page, admin, nil), http.StatusOK, &resp)
		assert.Empty(t, resp.Data.Items)
		assert.Equal(t, helpers.MaxPage, resp.Data.Pagination.CurrentPage)
	}
}
