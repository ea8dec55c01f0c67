package handler

import (
	"encoding/json"
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/stream"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type BoardReader interface {
	Snapshot() board.Snapshot
	Counts() board.Counts
}

type BoardHandler struct {
	board BoardReader
	hub   *stream.Hub
}

func NewBoardHandler(board BoardReader, hub *stream.Hub) *BoardHandler {
	return &BoardHandler{board: board, hub: hub}
}

// Get returns every column plus the aggregate counts.
//
// @Summary  Board snapshot
// @Tags     Board
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} board.Snapshot
// @Router   /board [get]
func (h *BoardHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.Snapshot())
}

// @Summary  Aggregate counts
// @Tags     Board
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} board.Counts
// @Router   /board/counts [get]
func (h *BoardHandler) Counts(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.Counts())
}

// Stream sends the current snapshot and then every new one as "board"
// server-sent events until the client goes away.
//
// @Summary  Live board updates (SSE)
// @Tags     Board
// @Param    token query string false "session token, for clients that cannot set headers"
// @Produce  text/event-stream
// @Router   /stream [get]
func (h *BoardHandler) Stream(c *gin.Context) {
	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	data, err := json.Marshal(h.board.Snapshot())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	for {
		c.SSEvent("board", string(data))
		c.Writer.Flush()

		select {
		case <-ctx.Done():
			log.Debug("stream client disconnected")
			return
		case next, ok := <-ch:
			if !ok {
				return
			}
			data = next
		}
	}
}
