package handlers

import (
	"net/http"
	"time"

	"tasknotify/models"
	"tasknotify/services/dispatch"
	"tasknotify/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const replayDedupTTL = 24 * time.Hour

// TriggerHandler lets operators re-drive change events through the
// dispatcher, e.g. to backfill notifications after a change-stream outage.
type TriggerHandler struct {
	Dispatcher dispatch.DispatchService
	Dedup      *redis.Client
}

func NewTriggerHandler(d dispatch.DispatchService, dedup *redis.Client) *TriggerHandler {
	return &TriggerHandler{Dispatcher: d, Dedup: dedup}
}

// ReplayChangeHandler accepts a serialized ChangeEvent and dispatches it. A
// SETNX guard on the event id keeps a double-submitted replay from sending
// twice; events without an id get a fresh one and are always dispatched.
func (h *TriggerHandler) ReplayChangeHandler(c *gin.Context) {
	var ev models.ChangeEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid change event", err.Error())
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if err := ev.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid change event", err.Error())
		return
	}
	fillPath(&ev)

	if h.Dedup != nil {
		ok, err := h.Dedup.SetNX(c.Request.Context(), "replay:"+ev.ID, 1, replayDedupTTL).Result()
		if err != nil {
			// Dedup is best effort; dispatch effects are idempotent anyway.
			utils.GetLogger().Warn("replay dedup check failed", zap.Error(err))
		} else if !ok {
			c.JSON(http.StatusConflict, gin.H{"status": "already replayed", "id": ev.ID})
			return
		}
	}

	if err := h.Dispatcher.Handle(c.Request.Context(), &ev); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Dispatch failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dispatched", "id": ev.ID})
}

// fillPath derives the document path fields from the event's task documents
// when the caller omitted them.
func fillPath(ev *models.ChangeEvent) {
	subject := ev.After
	if subject == nil {
		subject = ev.Before
	}
	if ev.Household == "" {
		ev.Household = subject.Household
	}
	if ev.TaskID == "" {
		ev.TaskID = subject.ID
	}
}
