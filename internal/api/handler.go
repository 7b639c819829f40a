package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lab-attendance-backend/internal/attendance"
	"lab-attendance-backend/internal/faculty"
	"lab-attendance-backend/internal/model"
	"lab-attendance-backend/internal/parse"
	"lab-attendance-backend/internal/store"
)

// Messages shown to users.
const (
	MsgLoginRecorded   = "Login recorded successfully"
	MsgLogoutRecorded  = "Logout recorded successfully"
	MsgNoActiveLogin   = "No active login found. Please login first."
	MsgFacultyLoggedIn = "Faculty Login Successful"
	MsgInvalidFaculty  = "Invalid Faculty ID or Password"
	MsgFacultyLogout   = "Faculty logged out"
	MsgFacultyRequired = "Faculty login required"
	MsgInvalidRequest  = "invalid request"
	MsgInternal        = "internal error"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *attendance.Service
	gate    *faculty.Gate
	loc     *time.Location
	log     *zap.Logger
	session sessionPolicy
}

// NewHandler creates a new API handler. Timestamps are rendered in loc.
func NewHandler(svc *attendance.Service, gate *faculty.Gate, loc *time.Location, log *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, gate: gate, loc: loc, log: log}
}

type recordResponse struct {
	RegisterNumber string  `json:"register_number"`
	Programme      string  `json:"programme"`
	Year           string  `json:"year"`
	Purpose        string  `json:"purpose"`
	LoginTime      string  `json:"login_time"`
	LogoutTime     *string `json:"logout_time"`
}

func (h *Handler) toResponse(r model.AttendanceRecord) recordResponse {
	resp := recordResponse{
		RegisterNumber: r.RegisterNumber,
		Programme:      string(r.Programme),
		Year:           string(r.Year),
		Purpose:        string(r.Purpose),
		LoginTime:      parse.FormatTimestamp(r.LoginTime, h.loc),
	}
	if r.LogoutTime != nil {
		out := parse.FormatTimestamp(*r.LogoutTime, h.loc)
		resp.LogoutTime = &out
	}
	return resp
}

// writeError maps service errors to status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *attendance.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, parse.ErrUnknownValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": MsgNoActiveLogin})
	default:
		_ = c.Error(err)
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
	}
}
