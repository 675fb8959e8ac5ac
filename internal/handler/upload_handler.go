package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opsboard/internal/service"
)

// UploadHandler handles the document-slot endpoints of upload-enabled
// screens.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// NumberInput is the DTO for slot metadata updates.
type NumberInput struct {
	Number string `json:"number"`
}

// RemoveInput is the DTO for slot removal. Confirmed carries the outcome of
// the client-side confirmation dialog; an unconfirmed removal is a no-op.
type RemoveInput struct {
	Confirmed bool `json:"confirmed"`
}

// SaveFormInput is the DTO for persisting all touched slots of a vendor.
type SaveFormInput struct {
	VendorID uuid.UUID `json:"vendor_id" binding:"required"`
}

func slotID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid slot id")
		return 0, false
	}
	return id, true
}

// OpenForm handles GET /api/v1/screens/:screen/records/:id/slots
func (h *UploadHandler) OpenForm(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid record id")
		return
	}

	slots, err := h.uploadService.OpenForm(c.Request.Context(), userID, c.Param("screen"), vendorID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, slots)
}

// Slots handles GET /api/v1/screens/:screen/slots
func (h *UploadHandler) Slots(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	slots, err := h.uploadService.Slots(userID, c.Param("screen"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, slots)
}

// SetNumber handles PUT /api/v1/screens/:screen/slots/:slot/number
func (h *UploadHandler) SetNumber(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}

	var input NumberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	state, err := h.uploadService.SetNumber(userID, c.Param("screen"), id, input.Number)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Upload handles POST /api/v1/screens/:screen/slots/:slot/file
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, email, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	state, err := h.uploadService.Upload(c.Request.Context(), userID, email, c.Param("screen"), service.UploadInput{
		SlotID:      id,
		FileName:    header.Filename,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// FileURL handles GET /api/v1/screens/:screen/slots/:slot/file
func (h *UploadHandler) FileURL(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}

	url, err := h.uploadService.FileURL(c.Request.Context(), userID, c.Param("screen"), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Remove handles DELETE /api/v1/screens/:screen/slots/:slot/file
func (h *UploadHandler) Remove(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}

	var input RemoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	state, err := h.uploadService.Remove(userID, c.Param("screen"), id, input.Confirmed)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// SaveForm handles POST /api/v1/screens/:screen/slots/save
func (h *UploadHandler) SaveForm(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input SaveFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.uploadService.SaveForm(c.Request.Context(), userID, c.Param("screen"), input.VendorID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document slots saved"})
}
