package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

func TestPostAndListMessages(t *testing.T) {
	r := setupRouter(t)
	teacherAuth := bearerToken(t, "teacher-1")
	studentAuth := bearerToken(t, "student-1")
	g := createGroup(t, r, teacherAuth, "Math", "teacher-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/join", studentAuth, gin.H{
		"invite_code": g.JoinCode,
		"user_id":     "student-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	longBody := strings.Repeat("homework is due friday ", 5)
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/messages", g.ID), teacherAuth, gin.H{
		"sender_id":   "teacher-1",
		"sender_name": "Ms. Reyes",
		"body":        longBody,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var posted models.GroupMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posted))
	assert.Equal(t, longBody, posted.Body)
	assert.False(t, posted.SequenceTime.IsZero())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/groups/%s/messages", g.ID), studentAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed models.GroupMessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Messages, 1)
	assert.Equal(t, longBody, listed.Messages[0].Body)
	assert.NotEmpty(t, listed.NextCursor)
}

func TestListMessagesPaginates(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")
	g := createGroup(t, r, auth, "Math", "teacher-1")

	for i := 0; i < 5; i++ {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/messages", g.ID), auth, gin.H{
			"sender_id":   "teacher-1",
			"sender_name": "Ms. Reyes",
			"body":        fmt.Sprintf("message %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(time.Millisecond)
	}

	var got []string
	cursor := ""
	for {
		path := fmt.Sprintf("/api/v1/groups/%s/messages?limit=2", g.ID)
		if cursor != "" {
			path += "&since=" + cursor
		}
		w := doJSON(t, r, http.MethodGet, path, auth, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page models.GroupMessagesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		if len(page.Messages) == 0 {
			break
		}
		for _, m := range page.Messages {
			got = append(got, m.Body)
		}
		cursor = page.NextCursor
	}

	want := []string{"message 0", "message 1", "message 2", "message 3", "message 4"}
	assert.Equal(t, want, got)
}

func TestPostMessageValidation(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")
	g := createGroup(t, r, auth, "Math", "teacher-1")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/messages", g.ID), auth, gin.H{
		"sender_id":   "teacher-1",
		"sender_name": "Ms. Reyes",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostMessageUnknownGroup(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/7b39e0b4-93b4-4f94-a1c7-2f3ce1e3e5a0/messages", auth, gin.H{
		"sender_id":   "teacher-1",
		"sender_name": "Ms. Reyes",
		"body":        "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMessagesBadCursorParam(t *testing.T) {
	r := setupRouter(t)
	auth := bearerToken(t, "teacher-1")
	g := createGroup(t, r, auth, "Math", "teacher-1")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/groups/%s/messages?since=%%21%%21bogus", g.ID), auth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
