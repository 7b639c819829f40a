package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lab-attendance-backend/internal/attendance"
	"lab-attendance-backend/internal/parse"
)

// StudentLogin records a new lab visit.
func (h *Handler) StudentLogin(c *gin.Context) {
	var in attendance.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	rec, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": MsgLoginRecorded, "record": h.toResponse(rec)})
}

// StudentLogout closes the student's most recent open visit.
func (h *Handler) StudentLogout(c *gin.Context) {
	var in attendance.LogoutInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	at, err := h.svc.Logout(c.Request.Context(), in.RegisterNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     MsgLogoutRecorded,
		"logout_time": parse.FormatTimestamp(at, h.loc),
	})
}
