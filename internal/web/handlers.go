package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/israice/ToDo-Game/internal/engine"
)

func (s *Server) handleState(c *gin.Context) {
	state, err := s.svc.State(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleListTasks(c *gin.Context) {
	state, err := s.svc.State(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state.Tasks)
}

type createTaskRequest struct {
	Text  string  `json:"text"`
	Media *string `json:"media"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in createTaskRequest
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := s.svc.CreateTask(c.Request.Context(), currentUserID(c), in.Text, in.Media)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type updateTaskRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var in updateTaskRequest
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.UpdateTaskText(c.Request.Context(), currentUserID(c), c.Param("id"), in.Text); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type completeTaskRequest struct {
	Combo int `json:"combo"`
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	// A missing body means combo 0, matching first-completion clients.
	var in completeTaskRequest
	_ = c.ShouldBindJSON(&in)
	if in.Combo < 0 {
		in.Combo = 0
	}

	res, err := s.svc.CompleteTask(c.Request.Context(), currentUserID(c), c.Param("id"), in.Combo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleResetCombo(c *gin.Context) {
	if err := s.svc.ResetCombo(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var in engine.SettingsUpdate
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.UpdateSettings(c.Request.Context(), currentUserID(c), in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := s.svc.RecentActivity(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	type activityView struct {
		Kind      string  `json:"kind"`
		Text      string  `json:"text"`
		XPEarned  int     `json:"xpEarned"`
		Media     *string `json:"media,omitempty"`
		CreatedAt string  `json:"createdAt"`
	}
	out := make([]activityView, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityView{
			Kind:      e.Kind,
			Text:      e.Text,
			XPEarned:  e.XPEarned,
			Media:     e.Media,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// writeError maps core errors onto HTTP statuses. Persistence failures
// surface as a generic server failure; no partial state exists by then.
func writeError(c *gin.Context, err error) {
	var verr engine.ValidationError
	switch {
	case errors.Is(err, engine.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
