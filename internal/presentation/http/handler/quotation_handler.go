package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/application/service"
	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/request"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/response"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing the caller's quotations
func (h *QuotationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter request.ListFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.quotationService.ListQuotations(c.Request.Context(), &service.ListQuotationsInput{
		UserID:     userID,
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Create handles creating a quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input, err := toQuotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), &service.CreateQuotationInput{
		UserID:         userID,
		Username:       GetUsername(c),
		QuotationInput: *input,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Get handles getting a single quotation with its lines
func (h *QuotationHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Update handles replacing a quotation's fields and lines
func (h *QuotationHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "quotation")
	if !ok {
		return
	}

	var req request.QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input, err := toQuotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), &service.UpdateQuotationInput{
		UserID:         userID,
		ID:             id,
		QuotationInput: *input,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// Delete handles deleting a quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func toQuotationInput(req *request.QuotationRequest) (*service.QuotationInput, error) {
	var fieldErrors []apperror.FieldError

	mode := enum.PricingModeNRP
	if req.PricingMode != "" {
		parsed, err := enum.ParsePricingMode(req.PricingMode)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "pricing_mode", Message: "must be nrp, mrp or manual"})
		}
		mode = parsed
	}

	date, err := parseDate(req.Date)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "date", Message: "must be YYYY-MM-DD or RFC 3339"})
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	input := &service.QuotationInput{
		CustomerName:     req.CustomerName,
		CustomerAddress:  req.CustomerAddress,
		CustomerPhone:    req.CustomerPhone,
		ConsigneeName:    req.ConsigneeName,
		ConsigneeAddress: req.ConsigneeAddress,
		ConsigneePhone:   req.ConsigneePhone,
		Date:             date,
		DiscountPercent:  req.DiscountPercent,
		PricingMode:      mode,
		IncludeGST:       req.IncludeGST,
		Lines:            make([]service.QuotationLineInput, len(req.Lines)),
	}
	for i, line := range req.Lines {
		input.Lines[i] = service.QuotationLineInput{
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			ManualPrice: line.ManualPrice,
		}
	}
	return input, nil
}

// parseDate accepts a calendar date or a full timestamp. Blank means unset.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
