// internal/handlers/feed.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrilink/agrilink-backend/internal/feed"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

// FeedHandler streams change notifications over server-sent events. Clients
// subscribe to a table, receive row-change pings and re-fetch through the
// regular endpoints.
type FeedHandler struct {
	broker *feed.Broker
}

func NewFeedHandler(broker *feed.Broker) *FeedHandler {
	return &FeedHandler{broker: broker}
}

var feedTables = map[string]bool{
	"crops":  true,
	"orders": true,
}

// GET /feed/:table
func (h *FeedHandler) Stream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	table := c.Param("table")
	if !feedTables[table] {
		utils.BadRequestResponse(c, "unknown feed table", nil)
		return
	}

	// The filter column is chosen by the client, but the value is always the
	// caller's own ID, so nobody can watch someone else's rows.
	filter := feed.Filter{}
	switch c.Query("filter") {
	case "farmer_id":
		filter = feed.Filter{Column: "farmer_id", Value: userID.String()}
	case "vendor_id":
		filter = feed.Filter{Column: "vendor_id", Value: userID.String()}
	case "":
		// Unfiltered subscriptions are only sensible for marketplace watching;
		// scope order feeds to the caller's side of the order.
		if table == "orders" {
			if currentRole(c) == models.AppRoleFarmer {
				filter = feed.Filter{Column: "farmer_id", Value: userID.String()}
			} else {
				filter = feed.Filter{Column: "vendor_id", Value: userID.String()}
			}
		}
	default:
		utils.BadRequestResponse(c, "unknown filter column", nil)
		return
	}

	sub := h.broker.Subscribe(table, filter)
	defer h.broker.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		case event, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}
