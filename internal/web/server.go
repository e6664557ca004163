package web

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/israice/ToDo-Game/internal/config"
	"github.com/israice/ToDo-Game/internal/engine"
	"github.com/israice/ToDo-Game/internal/hub"
)

// Server is the QuestBoard HTTP surface.
type Server struct {
	cfg    config.Config
	db     *sql.DB
	svc    *engine.Service
	hub    *hub.Hub
	router *gin.Engine
}

func NewServer(cfg config.Config, db *sql.DB, svc *engine.Service, h *hub.Hub) *Server {
	router := gin.Default()

	s := &Server{
		cfg:    cfg,
		db:     db,
		svc:    svc,
		hub:    h,
		router: router,
	}

	router.POST("/api/register", s.handleRegister)
	router.POST("/api/login", s.handleLogin)
	router.POST("/api/logout", s.handleLogout)

	api := router.Group("/api", s.requireAuth)
	{
		api.GET("/state", s.handleState)
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)
		api.POST("/combo/reset", s.handleResetCombo)
		api.PUT("/settings", s.handleUpdateSettings)
		api.GET("/activity", s.handleActivity)
		api.GET("/events", s.handleEvents)
	}

	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the handler chain for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
