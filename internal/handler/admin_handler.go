package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
	"github.com/stemsi/quizdeck/internal/validator"
)

// AdminHandler handles the admin gate check.
type AdminHandler struct {
	gate *service.AdminGate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(gate *service.AdminGate) *AdminHandler {
	return &AdminHandler{gate: gate}
}

// Verify godoc
// POST /api/v1/admin/verify
// Reports whether a candidate secret unlocks topic deletion. A wrong secret
// is a normal answer, not an error.
func (h *AdminHandler) Verify(c *gin.Context) {
	var req model.VerifyAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"enabled":    h.gate.Enabled(),
		"authorized": h.gate.Authorize(req.Secret),
	})
}
