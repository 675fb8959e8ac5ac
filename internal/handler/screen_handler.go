package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/internal/domain"
	"opsboard/internal/service"
)

// ScreenHandler handles the management-screen endpoints: mount lifecycle,
// list queries, column layout, exports and record CRUD.
type ScreenHandler struct {
	screenService service.ScreenService
}

// NewScreenHandler creates a new ScreenHandler.
func NewScreenHandler(screenService service.ScreenService) *ScreenHandler {
	return &ScreenHandler{screenService: screenService}
}

// FilterInput is the DTO for filter changes.
type FilterInput struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// PageInput is the DTO for page changes.
type PageInput struct {
	Page int `json:"page" binding:"required"`
}

// PageSizeInput is the DTO for page-size changes.
type PageSizeInput struct {
	Size int `json:"size" binding:"required"`
}

// SortInput is the DTO for sort changes.
type SortInput struct {
	Column string `json:"column" binding:"required"`
}

// ColumnsInput is the DTO for column layout saves.
type ColumnsInput struct {
	Columns []domain.ColumnDefinition `json:"columns" binding:"required"`
}

// RecordInput is the DTO for record saves. The payload is forwarded to the
// screen's save procedure as-is.
type RecordInput struct {
	IsEdit bool          `json:"is_edit"`
	Record domain.Record `json:"record" binding:"required"`
}

// Mount handles POST /api/v1/screens/:screen/mount
func (h *ScreenHandler) Mount(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	result, err := h.screenService.Mount(c.Request.Context(), userID, c.Param("screen"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Unmount handles POST /api/v1/screens/:screen/unmount
func (h *ScreenHandler) Unmount(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	h.screenService.Unmount(userID, c.Param("screen"))
	RespondOK(c, gin.H{"message": "screen unmounted"})
}

// Filter handles PUT /api/v1/screens/:screen/filter
func (h *ScreenHandler) Filter(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input FilterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	state, err := h.screenService.ApplyFilter(userID, c.Param("screen"), input.Column, input.Value)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, state)
}

// Search handles POST /api/v1/screens/:screen/search
func (h *ScreenHandler) Search(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	result, err := h.screenService.Search(c.Request.Context(), userID, c.Param("screen"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Page handles PUT /api/v1/screens/:screen/page
func (h *ScreenHandler) Page(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input PageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.screenService.ChangePage(c.Request.Context(), userID, c.Param("screen"), input.Page)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// PageSize handles PUT /api/v1/screens/:screen/page-size
func (h *ScreenHandler) PageSize(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input PageSizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !domain.ValidPageSize(input.Size) {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unsupported page size")
		return
	}

	result, err := h.screenService.ChangePageSize(c.Request.Context(), userID, c.Param("screen"), input.Size)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Sort handles PUT /api/v1/screens/:screen/sort
func (h *ScreenHandler) Sort(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input SortInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.screenService.ChangeSort(c.Request.Context(), userID, c.Param("screen"), input.Column)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Export handles GET /api/v1/screens/:screen/export?format=csv
// The payload streams back with a Content-Disposition attachment header; an
// export with no rows returns 204.
func (h *ScreenHandler) Export(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	format, valid := domain.ParseExportFormat(c.DefaultQuery("format", "csv"))
	if !valid {
		HandleError(c, domain.ErrInvalidFormat)
		return
	}

	result, err := h.screenService.Export(c.Request.Context(), userID, c.Param("screen"), format)
	if err != nil {
		HandleError(c, err)
		return
	}
	if result.Payload == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// SaveColumns handles PUT /api/v1/screens/:screen/columns
func (h *ScreenHandler) SaveColumns(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input ColumnsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	defs, err := h.screenService.SaveColumns(c.Request.Context(), userID, c.Param("screen"), input.Columns)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, defs)
}

// SaveRecord handles POST /api/v1/screens/:screen/records
func (h *ScreenHandler) SaveRecord(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.screenService.SaveRecord(c.Request.Context(), userID, c.Param("screen"), input.Record, input.IsEdit); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "record saved"})
}

// DeleteRecord handles DELETE /api/v1/screens/:screen/records/:id
func (h *ScreenHandler) DeleteRecord(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.screenService.DeleteRecord(c.Request.Context(), userID, c.Param("screen"), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "record deleted"})
}
