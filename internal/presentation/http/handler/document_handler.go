package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/application/service"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/response"
)

const contentTypePDF = "application/pdf"

// DocumentHandler serves generated documents
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// QuotationPDF renders a quotation and streams it as an attachment. Errors
// are answered as JSON; once headers are written a failed write can only
// be logged.
func (h *DocumentHandler) QuotationPDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "quotation")
	if !ok {
		return
	}

	result, err := h.documentService.GenerateQuotation(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	setPDFHeaders(c, result.Filename, len(result.Data))
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(result.Data); err != nil {
		_ = c.Error(fmt.Errorf("write quotation %s pdf: %w", id, err))
	}
}

func setPDFHeaders(c *gin.Context, fileName string, size int) {
	c.Header("Content-Type", contentTypePDF)
	c.Header("Content-Length", strconv.Itoa(size))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
}
