package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/application/service"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/request"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/response"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// ImageFormField is the multipart field carrying an item image
const ImageFormField = "image"

// ItemHandler handles catalog item requests
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// List handles listing items. Admins see every owner's items.
func (h *ItemHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter request.ListFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.itemService.ListItems(c.Request.Context(), &service.ListItemsInput{
		UserID:     userID,
		IsAdmin:    IsAdmin(c),
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// Create handles creating an item
func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		NRP:         req.NRP,
		MRP:         req.MRP,
		Image:       req.Image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Get handles getting a single item
func (h *ItemHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "item")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), userID, IsAdmin(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Update handles updating an item
func (h *ItemHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "item")
	if !ok {
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		UserID:      userID,
		IsAdmin:     IsAdmin(c),
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		NRP:         req.NRP,
		MRP:         req.MRP,
		Image:       req.Image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// Delete handles deleting an item
func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "item")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), userID, IsAdmin(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UploadImage handles a multipart image upload for an item
func (h *ItemHandler) UploadImage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "item")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(ImageFormField)
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	item, err := h.itemService.UploadImage(c.Request.Context(), &service.UploadImageInput{
		UserID:      userID,
		IsAdmin:     IsAdmin(c),
		ID:          id,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Image uploaded successfully", item)
}
