package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"lab-attendance-backend/internal/faculty"
)

const (
	sessionAuthenticatedKey = "faculty_authenticated"
	sessionFacultyIDKey     = "faculty_id"
	sessionIssuedAtKey      = "faculty_issued_at"
)

// sessionPolicy reads and writes the faculty session cookie. A login older
// than maxAge is treated as logged out whatever the cookie says.
type sessionPolicy struct {
	maxAge time.Duration
	now    func() time.Time
}

func (p sessionPolicy) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// load reads the faculty session from the cookie. A missing, unreadable or
// expired cookie is a logged out session.
func (p sessionPolicy) load(c *gin.Context) faculty.Session {
	s := sessions.Default(c)
	auth, _ := s.Get(sessionAuthenticatedKey).(bool)
	if !auth {
		return faculty.Session{}
	}
	if p.maxAge > 0 {
		issued, ok := s.Get(sessionIssuedAtKey).(int64)
		if !ok || p.clock().Sub(time.Unix(issued, 0)) > p.maxAge {
			return faculty.Session{}
		}
	}
	id, _ := s.Get(sessionFacultyIDKey).(string)
	return faculty.Session{Authenticated: true, FacultyID: id}
}

func (p sessionPolicy) save(c *gin.Context, fs faculty.Session) error {
	s := sessions.Default(c)
	if fs.Authenticated {
		s.Set(sessionAuthenticatedKey, true)
		s.Set(sessionFacultyIDKey, fs.FacultyID)
		s.Set(sessionIssuedAtKey, p.clock().Unix())
	} else {
		s.Clear()
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RequireFaculty rejects requests without a logged in faculty session.
func (h *Handler) RequireFaculty() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := h.session.load(c)
		if s.State() != faculty.LoggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgFacultyRequired})
			return
		}
		c.Set(sessionFacultyIDKey, s.FacultyID)
		c.Next()
	}
}
