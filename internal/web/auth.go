package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/israice/ToDo-Game/internal/storage"
)

const userIDKey = "userID"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentials) validate() (string, string, bool) {
	username := strings.TrimSpace(strings.ToLower(c.Username))
	if len(username) < 3 || len(username) > 32 {
		return "", "", false
	}
	if len(c.Password) < 8 || len(c.Password) > 128 {
		return "", "", false
	}
	return username, c.Password, true
}

func (s *Server) handleRegister(c *gin.Context) {
	var in credentials
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	username, password, ok := in.validate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-32 chars, password 8-128"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx := c.Request.Context()
	users := storage.NewUserRepo(s.db)
	userID, err := users.Insert(ctx, username, string(hash))
	if err != nil {
		if err == storage.ErrUsernameTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// New users start with the default progress row in place.
	if _, err := storage.NewProgressRepo(s.db).GetOrCreate(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := s.startSession(c, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": username})
}

func (s *Server) handleLogin(c *gin.Context) {
	var in credentials
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	username := strings.TrimSpace(strings.ToLower(in.Username))

	ctx := c.Request.Context()
	user, err := storage.NewUserRepo(s.db).GetByUsername(ctx, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := s.startSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(s.cfg.SessionCookie); err == nil && token != "" {
		_ = storage.NewSessionRepo(s.db).Delete(c.Request.Context(), token)
	}
	c.SetCookie(s.cfg.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) startSession(c *gin.Context, userID int64) error {
	token := uuid.NewString()
	ttl := time.Duration(s.cfg.SessionTTLH) * time.Hour
	expires := time.Now().Add(ttl)
	if err := storage.NewSessionRepo(s.db).Insert(c.Request.Context(), token, userID, expires); err != nil {
		return err
	}
	c.SetCookie(s.cfg.SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	return nil
}

// requireAuth resolves the session cookie to a user identity; requests
// without one never reach the core.
func (s *Server) requireAuth(c *gin.Context) {
	token, err := c.Cookie(s.cfg.SessionCookie)
	if err != nil || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	session, err := storage.NewSessionRepo(s.db).Resolve(c.Request.Context(), token, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if session == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Set(userIDKey, session.UserID)
	c.Next()
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
