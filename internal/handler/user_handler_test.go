package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func TestExchangeIdentityCreatesThenRefreshes(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/discord", 0, map[string]any{
		"discord_id": "123", "display_name": "Alice", "avatar_url": "https://cdn.example/a.png",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeBody[identityResponse](t, rec)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "Alice", first.User.DisplayName)

	rec = e.do(t, http.MethodPost, "/api/v1/auth/discord", 0, map[string]any{
		"discord_id": "123", "display_name": "Alice2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[identityResponse](t, rec)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Alice2", second.User.DisplayName)
	assert.Equal(t, 1, e.users.Count())
}

func TestExchangeIdentityRequiresFields(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/discord", 0, map[string]any{
		"display_name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLibraryEndpoint(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	rec := e.do(t, http.MethodPut, "/api/v1/users/me/library", user, map[string]any{
		"games": []map[string]any{
			{"bgg_id": "13", "name": "Catan", "expertise": "expert"},
			{"bgg_id": "822", "name": "Carcassonne", "expertise": "novice"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[UserResponse](t, rec)
	require.Len(t, updated.GameLibrary, 2)
	assert.Equal(t, "expert", updated.GameLibrary[0].Expertise)
}

func TestUpdateLibraryRejectsUnknownExpertise(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	rec := e.do(t, http.MethodPut, "/api/v1/users/me/library", user, map[string]any{
		"games": []map[string]any{
			{"bgg_id": "13", "name": "Catan", "expertise": "grandmaster"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAvailabilityEndpoint(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	rec := e.do(t, http.MethodPut, "/api/v1/users/me/availability", user, map[string]any{
		"slots": []map[string]any{
			{"day_of_week": 5, "start_time": "18:00", "end_time": "22:00"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[UserResponse](t, rec)
	require.Len(t, updated.Availability, 1)
	assert.Equal(t, 5, updated.Availability[0].DayOfWeek)

	rec = e.do(t, http.MethodPut, "/api/v1/users/me/availability", user, map[string]any{
		"slots": []map[string]any{
			{"day_of_week": 9, "start_time": "18:00", "end_time": "22:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMeEndpoint(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	rec := e.do(t, http.MethodGet, "/api/v1/users/me", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[UserResponse](t, rec)
	assert.Equal(t, user, me.ID)
	assert.False(t, me.PushSubscribed)
}
