package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opsboard/internal/service"
)

// AdminHandler handles the admin-only permission administration endpoints.
type AdminHandler struct {
	screenService service.ScreenService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(screenService service.ScreenService) *AdminHandler {
	return &AdminHandler{screenService: screenService}
}

// GrantInput is the DTO for rewriting one user's grants on one form.
// Actions is the raw comma-separated grant string as stored, e.g.
// "Add, Edit, Search".
type GrantInput struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	FormID  int       `json:"form_id" binding:"required"`
	Actions string    `json:"actions"`
}

// UpdateGrants handles PUT /api/v1/admin/permissions
func (h *AdminHandler) UpdateGrants(c *gin.Context) {
	var input GrantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.screenService.UpdateGrants(c.Request.Context(), input.UserID, input.FormID, input.Actions); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "permissions updated"})
}
