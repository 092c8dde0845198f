package handler

import (
	"io"
	"net/http"

	"boardmatch/backend/internal/changefeed"

	"github.com/gin-gonic/gin"
)

var watchableTables = map[changefeed.Table]bool{
	changefeed.TableUsers:         true,
	changefeed.TableSessions:      true,
	changefeed.TableSwipes:        true,
	changefeed.TableFeedback:      true,
	changefeed.TableNotifications: true,
}

// StreamEvents godoc
// @Summary      Subscribe to document-change events
// @Description  Server-sent event stream of change-feed events for one table. Clients re-run their queries when a change for the watched table arrives.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        table query string false "Table to watch" default(sessions)
// @Success      200 {string} string "event stream"
// @Failure      400 {object} ErrorResponse "Unknown table"
// @Router       /events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	table := changefeed.Table(c.DefaultQuery("table", string(changefeed.TableSessions)))
	if !watchableTables[table] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown table"})
		return
	}

	client := make(changefeed.Client, 16)
	h.hub.Subscribe(table, client)
	defer h.hub.Unsubscribe(table, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case payload, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("change", string(payload))
			return true
		}
	})
}
