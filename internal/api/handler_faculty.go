package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lab-attendance-backend/internal/metrics"
	"lab-attendance-backend/internal/store"
	"lab-attendance-backend/internal/view"
)

type facultyLoginRequest struct {
	FacultyID string `json:"faculty_id" form:"faculty_id"`
	Password  string `json:"password" form:"password"`
}

// FacultySession reports whether the caller is logged in as faculty.
func (h *Handler) FacultySession(c *gin.Context) {
	s := h.session.load(c)
	resp := gin.H{"authenticated": s.Authenticated, "faculty_id": nil}
	if s.Authenticated {
		resp["faculty_id"] = s.FacultyID
	}
	c.JSON(http.StatusOK, resp)
}

// FacultyLogin authenticates against the configured credentials. A failed
// attempt leaves the existing session alone.
func (h *Handler) FacultyLogin(c *gin.Context) {
	var req facultyLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	s := h.session.load(c)
	if !h.gate.Authenticate(&s, req.FacultyID, req.Password) {
		metrics.FacultyAuth.WithLabelValues(metrics.ResultRejected).Inc()
		h.log.Warn("faculty login rejected", zap.String("faculty_id", req.FacultyID), zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": MsgInvalidFaculty})
		return
	}
	if err := h.session.save(c, s); err != nil {
		metrics.FacultyAuth.WithLabelValues(metrics.ResultError).Inc()
		h.writeError(c, err)
		return
	}

	metrics.FacultyAuth.WithLabelValues(metrics.ResultOK).Inc()
	h.log.Info("faculty login", zap.String("faculty_id", s.FacultyID))
	c.JSON(http.StatusOK, gin.H{"message": MsgFacultyLoggedIn, "faculty_id": s.FacultyID})
}

// FacultyLogout ends the faculty session.
func (h *Handler) FacultyLogout(c *gin.Context) {
	s := h.session.load(c)
	h.gate.Logout(&s)
	if err := h.session.save(c, s); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": MsgFacultyLogout})
}

func (h *Handler) loadView(c *gin.Context) (view.Criteria, bool) {
	criteria, err := view.ParseCriteria(c.Query("programme"), c.Query("year"), c.Query("purpose"))
	if err != nil {
		h.writeError(c, err)
		return view.Criteria{}, false
	}
	return criteria, true
}

// Records returns the filtered visits with their summary.
func (h *Handler) Records(c *gin.Context) {
	criteria, ok := h.loadView(c)
	if !ok {
		return
	}
	v, err := h.svc.Records(c.Request.Context(), criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}

	records := make([]recordResponse, 0, len(v.Records))
	for _, r := range v.Records {
		records = append(records, h.toResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"records":         records,
		"total_visits":    v.TotalVisits,
		"unique_students": v.UniqueStudents,
	})
}

// RecordsCSV downloads the filtered visits in the attendance file layout.
func (h *Handler) RecordsCSV(c *gin.Context) {
	criteria, ok := h.loadView(c)
	if !ok {
		return
	}
	v, err := h.svc.Records(c.Request.Context(), criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="lab_login_data.csv"`)
	c.Status(http.StatusOK)
	if err := store.WriteCSV(c.Writer, v.Records, h.loc); err != nil {
		_ = c.Error(err)
		h.log.Error("failed to write csv export", zap.Error(err))
	}
}
