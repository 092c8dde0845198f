package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchGamesEndpointPaginates(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	for i := 1; i <= 5; i++ {
		rec := e.do(t, http.MethodPost, "/api/v1/admin/games", user, map[string]any{
			"bgg_id": fmt.Sprintf("%d", i), "name": fmt.Sprintf("Game %d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := e.do(t, http.MethodGet, "/api/v1/games?q=game&limit=2", user, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decodeBody[CursorPage[GameResponse]](t, rec)
	require.Len(t, page.Data, 2)
	assert.False(t, page.IsDone)
	require.NotEmpty(t, page.Cursor)

	rec = e.do(t, http.MethodGet, "/api/v1/games?q=game&limit=2&cursor="+page.Cursor, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[CursorPage[GameResponse]](t, rec)
	require.Len(t, second.Data, 2)
	assert.NotEqual(t, page.Data[0].ID, second.Data[0].ID)

	rec = e.do(t, http.MethodGet, "/api/v1/games?q=game&limit=2&cursor="+second.Cursor, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last := decodeBody[CursorPage[GameResponse]](t, rec)
	require.Len(t, last.Data, 1)
	assert.True(t, last.IsDone)
	assert.Empty(t, last.Cursor)
}

func TestSearchGamesEndpointMalformedCursor(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "alice")

	rec := e.do(t, http.MethodGet, "/api/v1/games?cursor=%21%21bogus", user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportGameEndpointUpserts(t *testing.T) {
	e := newTestEnv(t)
	user := seedUser(t, e, "admin")

	rec := e.do(t, http.MethodPost, "/api/v1/admin/games", user, map[string]any{
		"bgg_id": "13", "name": "Catan", "min_players": 3, "max_players": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeBody[GameResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/api/v1/admin/games", user, map[string]any{
		"bgg_id": "13", "name": "CATAN (2015)", "min_players": 3, "max_players": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeBody[GameResponse](t, rec)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "CATAN (2015)", second.Name)
}
