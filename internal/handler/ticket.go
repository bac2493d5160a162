package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sahay-helpdesk/helpdesk-service/internal/errs"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/model"
	"github.com/sahay-helpdesk/helpdesk-service/internal/service"
	"gorm.io/datatypes"
)

type TicketHandler struct {
	store service.TicketStorer
	log   *logger.Logger
}

func NewTicketHandler(store service.TicketStorer, log *logger.Logger) *TicketHandler {
	return &TicketHandler{store: store, log: log.With("handler", "ticket")}
}

type createTicketRequest struct {
	TicketNumber   string   `json:"ticket_number"`
	Title          string   `json:"title" binding:"required,min=5,max=200"`
	Description    string   `json:"description" binding:"required,min=10"`
	Category       string   `json:"category" binding:"required,oneof=password_reset vpn_access hardware software network email_issues access_rights other"`
	Priority       string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Source         string   `json:"source" binding:"required,oneof=chatbot email glpi solman manual phone"`
	RequesterEmail string   `json:"requester_email" binding:"required,email"`
	RequesterName  string   `json:"requester_name" binding:"required"`
	Department     string   `json:"department"`
	ContactNumber  string   `json:"contact_number"`
	AssignedTeam   string   `json:"assigned_team"`
	AssignedTo     string   `json:"assigned_to"`
	RelatedAssets  []string `json:"related_assets"`
	Tags           []string `json:"tags"`
}

// Create handles POST /ticket.
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	number := req.TicketNumber
	if number == "" {
		number = model.GenerateTicketNumber(time.Now())
	}
	priority := model.TicketPriority(req.Priority)
	if priority == "" {
		priority = model.TicketPriorityMedium
	}
	ticket := &model.Ticket{
		TicketNumber:   number,
		Title:          req.Title,
		Description:    req.Description,
		Category:       model.TicketCategory(req.Category),
		Priority:       priority,
		Status:         model.TicketStatusOpen,
		Source:         model.TicketSource(req.Source),
		RequesterEmail: req.RequesterEmail,
		RequesterName:  req.RequesterName,
		Department:     req.Department,
		ContactNumber:  req.ContactNumber,
		AssignedTeam:   req.AssignedTeam,
		AssignedTo:     req.AssignedTo,
		RelatedAssets:  datatypes.JSONSlice[string](req.RelatedAssets),
		Tags:           datatypes.JSONSlice[string](req.Tags),
	}
	if err := h.store.Create(c.Request.Context(), ticket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error creating ticket: %v", err)})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type listTicketsQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=open in_progress resolved closed pending_customer pending_vendor"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	Category   string `form:"category" binding:"omitempty,oneof=password_reset vpn_access hardware software network email_issues access_rights other"`
	AssignedTo string `form:"assigned_to"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=50" binding:"min=1,max=100"`
}

// List handles GET /ticket with optional exact-match filters and pagination.
func (h *TicketHandler) List(c *gin.Context) {
	var q listTicketsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}
	filter := make(map[string]any)
	if q.Status != "" {
		filter["status = ?"] = q.Status
	}
	if q.Priority != "" {
		filter["priority = ?"] = q.Priority
	}
	if q.Category != "" {
		filter["category = ?"] = q.Category
	}
	if q.AssignedTo != "" {
		filter["assigned_to = ?"] = q.AssignedTo
	}
	items, err := h.store.List(c.Request.Context(), filter, q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error fetching tickets: %v", err)})
		return
	}
	if items == nil {
		items = []model.Ticket{}
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /ticket/:id.
func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFoundOr500(c, err, "Error fetching ticket")
		return
	}
	c.JSON(http.StatusOK, t)
}

// GetByNumber handles GET /ticket/number/:ticket_number.
func (h *TicketHandler) GetByNumber(c *gin.Context) {
	t, err := h.store.GetByNumber(c.Request.Context(), c.Param("ticket_number"))
	if err != nil {
		notFoundOr500(c, err, "Error fetching ticket")
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateTicketRequest struct {
	Status          *string   `json:"status" binding:"omitempty,oneof=open in_progress resolved closed pending_customer pending_vendor"`
	Priority        *string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssignedTeam    *string   `json:"assigned_team"`
	AssignedTo      *string   `json:"assigned_to"`
	ResolutionNotes *string   `json:"resolution_notes"`
	Tags            *[]string `json:"tags"`
}

// Update handles PUT /ticket/:id: existence check, then a partial update of
// only the fields present in the payload. The check and the write are two
// separate store calls; a concurrent delete in between makes the write fail
// and surfaces as 500.
func (h *TicketHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if _, err := h.store.GetByID(c.Request.Context(), id); err != nil {
		notFoundOr500(c, err, "Error fetching ticket")
		return
	}
	changes := make(map[string]any)
	if req.Status != nil {
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		changes["priority"] = *req.Priority
	}
	if req.AssignedTeam != nil {
		changes["assigned_team"] = *req.AssignedTeam
	}
	if req.AssignedTo != nil {
		changes["assigned_to"] = *req.AssignedTo
	}
	if req.ResolutionNotes != nil {
		changes["resolution_notes"] = *req.ResolutionNotes
	}
	if req.Tags != nil {
		changes["tags"] = datatypes.JSONSlice[string](*req.Tags)
	}
	t, err := h.store.Update(c.Request.Context(), id, changes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error updating ticket: %v", err)})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /ticket/:id: existence check, then hard delete.
func (h *TicketHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetByID(c.Request.Context(), id); err != nil {
		notFoundOr500(c, err, "Error fetching ticket")
		return
	}
	ok, err := h.store.Delete(c.Request.Context(), id)
	if err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully"})
}

// Stats handles GET /ticket/stats/summary.
func (h *TicketHandler) Stats(c *gin.Context) {
	sum, err := h.store.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error fetching statistics: %v", err)})
		return
	}
	c.JSON(http.StatusOK, sum)
}

type searchQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=50" binding:"min=1,max=100"`
}

// Search handles GET /ticket/search/:keyword.
func (h *TicketHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}
	items, err := h.store.Search(c.Request.Context(), c.Param("keyword"), q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error searching tickets: %v", err)})
		return
	}
	if items == nil {
		items = []model.Ticket{}
	}
	c.JSON(http.StatusOK, items)
}

func notFoundOr500(c *gin.Context, err error, prefix string) {
	if errors.Is(err, errs.ErrTicketNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ticket not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("%s: %v", prefix, err)})
}

// validationError maps binding failures to a 422 body naming the offending
// fields, or a generic message when the payload was not bindable at all.
func validationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		detail := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			detail = append(detail, gin.H{
				"field": fe.Field(),
				"error": validationMessage(fe),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
