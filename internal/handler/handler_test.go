package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/service"
	"boardmatch/backend/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router        *gin.Engine
	users         *storetest.Users
	sessions      *storetest.Sessions
	notifications *storetest.Notifications
	games         *storetest.Games
}

// newTestEnv wires the full handler over in-memory stores, with an auth stub
// that trusts the X-Test-User header instead of a real token.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	users := storetest.NewUsers()
	sessions := storetest.NewSessions()
	swipes := storetest.NewSwipes()
	feedback := storetest.NewFeedback()
	notifications := storetest.NewNotifications()
	games := storetest.NewGames()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	feed := changefeed.Nop{}

	h := New(
		service.NewProfileService(users, feed, log),
		service.NewSessionService(sessions, users, swipes, notifications, feed, log),
		service.NewSwipeService(swipes, sessions, feed, log),
		service.NewFeedbackService(feedback, sessions, feed, log),
		service.NewNotificationService(notifications, feed, log),
		service.NewCatalogService(games, log),
		changefeed.NewHub(),
		testJWTSecret,
	)

	stubAuth := func(c *gin.Context) {
		if header := c.GetHeader("X-Test-User"); header != "" {
			var id uint
			_, err := fmt.Sscan(header, &id)
			require.NoError(t, err)
			c.Set("userID", id)
		}
		c.Next()
	}

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/auth/discord", h.ExchangeIdentity)

	authed := api.Group("")
	authed.Use(stubAuth)
	authed.GET("/users/me", h.GetMe)
	authed.PUT("/users/me/library", h.UpdateLibrary)
	authed.PUT("/users/me/availability", h.UpdateAvailability)
	authed.POST("/sessions", h.CreateSession)
	authed.GET("/sessions", h.ListSessions)
	authed.GET("/sessions/discover", h.DiscoverSessions)
	authed.GET("/sessions/:id", h.GetSessionByID)
	authed.PUT("/sessions/:id", h.UpdateSession)
	authed.POST("/sessions/:id/status", h.TransitionSession)
	authed.POST("/sessions/:id/join", h.JoinSession)
	authed.POST("/sessions/:id/leave", h.LeaveSession)
	authed.POST("/sessions/:id/swipe", h.RecordSwipe)
	authed.PUT("/sessions/:id/feedback", h.SubmitFeedback)
	authed.GET("/games", h.SearchGames)
	authed.POST("/admin/games", h.ImportGame)

	return &testEnv{
		router:        router,
		users:         users,
		sessions:      sessions,
		notifications: notifications,
		games:         games,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, asUser uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asUser != 0 {
		req.Header.Set("X-Test-User", fmt.Sprint(asUser))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
