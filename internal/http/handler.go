package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
	"github.com/zeronetech/boq-procure/internal/service"
)

type Handler struct {
	orders    *service.OrderService
	projects  *service.ProjectService
	imports   *service.ImportService
	directory *service.DirectoryService
	log       zerolog.Logger
}

func NewHandler(
	orders *service.OrderService,
	projects *service.ProjectService,
	imports *service.ImportService,
	directory *service.DirectoryService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		orders:    orders,
		projects:  projects,
		imports:   imports,
		directory: directory,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	router.POST("/projects/import", h.importProject)
	router.GET("/projects", h.listProjects)
	router.DELETE("/projects/:id", h.deleteProject)
	router.GET("/projects/:id/items", h.listItems)

	router.GET("/items/:id/balance", h.itemBalance)
	router.POST("/items/:id/allocations", h.allocateDelivery)

	router.POST("/orders/validate", h.validateOrder)
	router.POST("/orders", h.commitOrder)

	router.POST("/locations/:code/po-numbers", h.allocatePONumber)
	router.GET("/locations/:code/po-numbers/next", h.previewPONumber)
	router.GET("/locations", h.listLocations)

	router.GET("/suppliers", h.listSuppliers)
	router.POST("/suppliers", h.createSupplier)
	router.GET("/bill-to", h.listBillTo)
	router.POST("/bill-to", h.createBillTo)
	router.GET("/ship-to", h.listShipTo)
	router.POST("/ship-to", h.createShipTo)
}

func (h *Handler) importProject(c *gin.Context) {
	projectName := c.PostForm("project_name")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}

	result, err := h.imports.Import(c.Request.Context(), service.ImportInput{
		ProjectName: projectName,
		FileName:    fileHeader.Filename,
		Content:     content,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	if err := h.projects.DeleteProject(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	items, err := h.projects.ListItems(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toItemViews(items)})
}

func (h *Handler) itemBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	item, err := h.projects.ItemBalance(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item_id":         item.ID,
		"boq_ref":         item.BOQRef,
		"boq_qty":         item.BOQQty,
		"total_delivered": item.TotalDelivered,
		"balance":         item.Balance,
	})
}

type allocateDeliveryRequest struct {
	Slot int             `json:"slot" binding:"required"`
	Qty  decimal.Decimal `json:"qty" binding:"required"`
}

func (h *Handler) allocateDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req allocateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.projects.AllocateDelivery(c.Request.Context(), id, req.Slot, req.Qty)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemView(item))
}

type orderLineRequest struct {
	BOQRef    string          `json:"boq_ref" binding:"required"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type validateOrderRequest struct {
	ProjectID string             `json:"project_id" binding:"required"`
	Lines     []orderLineRequest `json:"lines" binding:"required"`
}

func (h *Handler) validateOrder(c *gin.Context) {
	var req validateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	violations, err := h.orders.ValidateOrder(c.Request.Context(), projectID, toLineInputs(req.Lines))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(violations) == 0, "violations": violations})
}

type commitOrderRequest struct {
	ProjectID string             `json:"project_id" binding:"required"`
	PONumber  string             `json:"po_number" binding:"required"`
	Slot      int                `json:"slot" binding:"required"`
	Lines     []orderLineRequest `json:"lines" binding:"required"`
}

func (h *Handler) commitOrder(c *gin.Context) {
	var req commitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	projectID, err := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	result, err := h.orders.CommitOrder(c.Request.Context(), service.CommitOrderInput{
		ProjectID: projectID,
		PONumber:  req.PONumber,
		Slot:      req.Slot,
		Lines:     toLineInputs(req.Lines),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) allocatePONumber(c *gin.Context) {
	number, err := h.orders.AllocatePONumber(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"po_number": number})
}

func (h *Handler) previewPONumber(c *gin.Context) {
	number, err := h.orders.PreviewPONumber(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	// Nothing is reserved: another allocation can take this number first.
	c.JSON(http.StatusOK, gin.H{"po_number": number, "reserved": false})
}

func (h *Handler) listLocations(c *gin.Context) {
	locations, err := h.directory.ListLocations(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

type companyRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
	ContactPerson string `json:"contact_person"`
	ContactNumber string `json:"contact_number"`
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.directory.ListSuppliers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *Handler) createSupplier(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	supplier, err := h.directory.CreateSupplier(c.Request.Context(), model.Supplier{
		Name:          req.Name,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) listBillTo(c *gin.Context) {
	companies, err := h.directory.ListBillToCompanies(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *Handler) createBillTo(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	company, err := h.directory.CreateBillToCompany(c.Request.Context(), model.BillToCompany{
		CompanyName:   req.Name,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) listShipTo(c *gin.Context) {
	addresses, err := h.directory.ListShipToAddresses(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *Handler) createShipTo(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	address, err := h.directory.CreateShipToAddress(c.Request.Context(), model.ShipToAddress{
		Name:          req.Name,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *ledger.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "order validation failed",
			"violations": validationErr.Violations,
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toLineInputs(lines []orderLineRequest) []service.OrderLineInput {
	out := make([]service.OrderLineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, service.OrderLineInput{
			BOQRef:    line.BOQRef,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return out
}

type itemView struct {
	ID             uuid.UUID         `json:"id"`
	BOQRef         string            `json:"boq_ref"`
	Description    string            `json:"description"`
	Make           string            `json:"make"`
	Model          string            `json:"model"`
	Unit           string            `json:"unit"`
	BOQQty         decimal.Decimal   `json:"boq_qty"`
	Rate           decimal.Decimal   `json:"rate"`
	Amount         decimal.Decimal   `json:"amount"`
	Delivered      []decimal.Decimal `json:"delivered"`
	TotalDelivered decimal.Decimal   `json:"total_delivered"`
	Balance        decimal.Decimal   `json:"balance"`
}

func toItemView(item *model.LineItem) itemView {
	return itemView{
		ID:             item.ID,
		BOQRef:         item.BOQRef,
		Description:    item.Description,
		Make:           item.Make,
		Model:          item.Model,
		Unit:           item.Unit,
		BOQQty:         item.BOQQty,
		Rate:           item.Rate,
		Amount:         item.Amount,
		Delivered:      item.Delivered[:],
		TotalDelivered: item.TotalDelivered,
		Balance:        item.Balance,
	}
}

func toItemViews(items []model.LineItem) []itemView {
	views := make([]itemView, 0, len(items))
	for i := range items {
		views = append(views, toItemView(&items[i]))
	}
	return views
}
