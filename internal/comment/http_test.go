// Copyright (c) 2026 Inkwell. All rights reserved.

package comment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datpham-dev/inkwell/internal/comment"
	"github.com/datpham-dev/inkwell/internal/platform/ctxutil"
	"github.com/datpham-dev/inkwell/internal/platform/sec"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Route("/comments", comment.NewHandler(f.service).RegisterRoutes)
	return router
}

// withClaims attaches auth claims the way the Authenticate middleware would.
func withClaims(request *http.Request, actor comment.Actor) *http.Request {
	claims := &sec.AuthClaims{UserID: actor.ID, Role: string(actor.Role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

type threadEnvelope struct {
	Data struct {
		Items []struct {
			Content string         `json:"content"`
			Status  comment.Status `json:"status"`
		} `json:"items"`
		TotalCount int `json:"total_count"`
	} `json:"data"`
}

func (f *fixture) seedModerated(t *testing.T) (pending, approved *comment.Comment) {
	t.Helper()

	pending = f.mustCreate(t, f.author, nil, "awaiting review")
	approved = f.mustCreate(t, f.author, nil, "published thought")

	moderated, err := f.service.SetStatus(context.Background(), f.editor, approved.ID, comment.StatusApproved)
	require.NoError(t, err)
	return pending, moderated
}

/*
TestHandler_ListForPost_PublicScope verifies that readers without editor
claims only ever receive approved comments, no matter what the status query
parameter says.
*/
func TestHandler_ListForPost_PublicScope(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	f.seedModerated(t)

	targets := []string{
		"/comments/post/" + f.postID,
		"/comments/post/" + f.postID + "?status=PENDING",
	}

	for _, target := range targets {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		var body threadEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Data.Items, 1, "anonymous read of %s must hide pending comments", target)
		assert.Equal(t, comment.StatusApproved, body.Data.Items[0].Status)
		assert.Equal(t, "published thought", body.Data.Items[0].Content)
		assert.Equal(t, 1, body.Data.TotalCount)
	}

	// An ordinary authenticated reader is pinned to APPROVED as well.
	recorder := httptest.NewRecorder()
	request := withClaims(httptest.NewRequest(http.MethodGet, targets[1], nil), f.someone)
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body threadEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, comment.StatusApproved, body.Data.Items[0].Status)
}

/*
TestHandler_ListForPost_ModeratorFilter verifies that editor claims keep the
full status filter for review work.
*/
func TestHandler_ListForPost_ModeratorFilter(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	f.seedModerated(t)

	recorder := httptest.NewRecorder()
	request := withClaims(httptest.NewRequest(http.MethodGet, "/comments/post/"+f.postID+"?status=PENDING", nil), f.editor)
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var filtered threadEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &filtered))
	require.Len(t, filtered.Data.Items, 1)
	assert.Equal(t, comment.StatusPending, filtered.Data.Items[0].Status)

	// Without a filter a moderator sees every state.
	recorder = httptest.NewRecorder()
	request = withClaims(httptest.NewRequest(http.MethodGet, "/comments/post/"+f.postID, nil), f.editor)
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var unfiltered threadEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &unfiltered))
	assert.Len(t, unfiltered.Data.Items, 2)
}

/*
TestHandler_GetComment_Visibility verifies that an unapproved comment reads
as 404 for everyone except its author and moderators.
*/
func TestHandler_GetComment_Visibility(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	pending, approved := f.seedModerated(t)

	get := func(request *http.Request) int {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder.Code
	}

	pendingPath := "/comments/" + pending.ID

	assert.Equal(t, http.StatusNotFound, get(httptest.NewRequest(http.MethodGet, pendingPath, nil)), "anonymous")
	assert.Equal(t, http.StatusNotFound, get(withClaims(httptest.NewRequest(http.MethodGet, pendingPath, nil), f.someone)), "stranger")
	assert.Equal(t, http.StatusOK, get(withClaims(httptest.NewRequest(http.MethodGet, pendingPath, nil), f.author)), "author")
	assert.Equal(t, http.StatusOK, get(withClaims(httptest.NewRequest(http.MethodGet, pendingPath, nil), f.editor)), "moderator")

	// Approved comments stay public.
	assert.Equal(t, http.StatusOK, get(httptest.NewRequest(http.MethodGet, "/comments/"+approved.ID, nil)))
}
