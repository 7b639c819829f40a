package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lab-attendance-backend/internal/model"
)

// FilterAll is the selector value that disables a filter.
const FilterAll = "All"

type optionsResponse struct {
	Programmes []model.Programme `json:"programmes"`
	Years      []model.Year      `json:"years"`
	Purposes   []model.Purpose   `json:"purposes"`
	FilterAll  string            `json:"filter_all"`
}

// Options lists the values for the programme, year and purpose selectors.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, optionsResponse{
		Programmes: model.Programmes,
		Years:      model.Years,
		Purposes:   model.Purposes,
		FilterAll:  FilterAll,
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
