package fakeapi

import (
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username != s.username {
		s.logger.Warn().
			Str("username", username).
			Msg("unknown user")
		abort(c, http.StatusUnauthorized, "Bad credentials")
		return
	}
	match, err := argon2id.ComparePasswordAndHash(password, s.passwordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		abort(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	} else if !match {
		s.logger.Warn().Msg("passwords do not match")
		abort(c, http.StatusUnauthorized, "Bad credentials")
		return
	}

	cookie := s.NewSession()
	c.SetCookie(cookie.Name, cookie.Value, 0, cookie.Path, "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

func (s *Server) handleAuth(c *gin.Context) {
	if !s.requireAuth {
		c.Next()
		return
	}
	sid, err := c.Cookie(SessionCookie)
	if err != nil {
		abort(c, http.StatusUnauthorized, "Full authentication is required")
		return
	}

	s.mu.RLock()
	_, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok {
		s.logger.Warn().Msg("session not found")
		abort(c, http.StatusUnauthorized, "Session expired")
		return
	}
	c.Next()
}

// NewSession registers a session and returns its cookie, as a successful
// login would.
func (s *Server) NewSession() *http.Cookie {
	sid := uuid.NewString()

	s.mu.Lock()
	s.sessions[sid] = time.Now()
	s.mu.Unlock()

	s.logger.Debug().
		Str("session_id", sid).
		Msg("created session")
	return &http.Cookie{Name: SessionCookie, Value: sid, Path: "/"}
}
