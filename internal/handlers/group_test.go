package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/handlers"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/routes"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/store"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := chat.NewService(store.NewMemory())

	r := gin.New()
	routes.SetupRoutes(r, handlers.NewGroupHandler(svc), handlers.NewMessageHandler(svc))
	return r
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, userID+"@juanlms.edu")
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type groupEnvelope struct {
	Message string               `json:"message"`
	Group   models.GroupResponse `json:"group"`
}

func createGroup(t *testing.T, r *gin.Engine, auth, name, creator string) models.GroupResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/groups", auth, gin.H{
		"name":       name,
		"creator_id": creator,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp groupEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Group
}

func TestCreateGroupEndpoint(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")

	g := createGroup(t, r, auth, "Math Study Group", "teacher-1")

	assert.Equal(t, "Math Study Group", g.Name)
	assert.Equal(t, "teacher-1", g.CreatedBy)
	assert.Equal(t, []string{"teacher-1"}, g.Participants)
	assert.Equal(t, 1, g.MemberCount)
	assert.Len(t, g.JoinCode, chat.JoinCodeLength)
}

func TestCreateGroupRequiresAuth(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups", "", gin.H{
		"name":       "Math",
		"creator_id": "teacher-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/groups", "Bearer not-a-token", gin.H{
		"name":       "Math",
		"creator_id": "teacher-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGroupMissingFields(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups", auth, gin.H{"name": "Math"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinGroupEndpoint(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "student-1")
	g := createGroup(t, r, bearerToken(t, "teacher-1"), "Math", "teacher-1")

	// Codes normalize, so a lowercase paste still works.
	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/join", auth, gin.H{
		"invite_code": strings.ToLower(g.JoinCode),
		"user_id":     "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp groupEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"teacher-1", "student-1"}, resp.Group.Participants)
}

func TestJoinGroupUnknownCode(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "student-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/join", auth, gin.H{
		"invite_code": "ZZZZZZ",
		"user_id":     "student-1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveGroupEndpoint(t *testing.T) {
	r := setupRouter(t)
	teacherAuth := bearerToken(t, "teacher-1")
	studentAuth := bearerToken(t, "student-1")
	g := createGroup(t, r, teacherAuth, "Math", "teacher-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/join", studentAuth, gin.H{
		"invite_code": g.JoinCode,
		"user_id":     "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/leave", g.ID), studentAuth, gin.H{
		"user_id": "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The creator stays put.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/leave", g.ID), teacherAuth, gin.H{
		"user_id": "teacher-1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveMemberEndpoint(t *testing.T) {
	r := setupRouter(t)
	teacherAuth := bearerToken(t, "teacher-1")
	studentAuth := bearerToken(t, "student-1")
	g := createGroup(t, r, teacherAuth, "Math", "teacher-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/join", studentAuth, gin.H{
		"invite_code": g.JoinCode,
		"user_id":     "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Non-creators cannot moderate.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/remove-member", g.ID), studentAuth, gin.H{
		"user_id":   "student-1",
		"member_id": "teacher-1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/remove-member", g.ID), teacherAuth, gin.H{
		"user_id":   "teacher-1",
		"member_id": "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp groupEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"teacher-1"}, resp.Group.Participants)
}

func TestGetUserGroupsEndpoint(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")
	createGroup(t, r, auth, "Math", "teacher-1")
	createGroup(t, r, auth, "Science", "teacher-1")

	w := doJSON(t, r, http.MethodGet, "/api/v1/groups?user_id=teacher-1", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Groups []models.GroupResponse `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Groups, 2)
}

func TestGetGroupDetailsNotFound(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")

	w := doJSON(t, r, http.MethodGet, "/api/v1/groups/not-a-uuid", auth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/7b39e0b4-93b4-4f94-a1c7-2f3ce1e3e5a0", auth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvitePreviewIsPublic(t *testing.T) {
	r := setupRouter(t)
	g := createGroup(t, r, bearerToken(t, "teacher-1"), "Math", "teacher-1")

	// No Authorization header at all.
	w := doJSON(t, r, http.MethodGet, "/api/v1/public-groups/invite/"+g.JoinCode, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp groupEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Math", resp.Group.Name)

	w = doJSON(t, r, http.MethodGet, "/api/v1/public-groups/invite/ZZZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
