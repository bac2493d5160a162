package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahay-helpdesk/helpdesk-service/internal/errs"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/model"
	"gorm.io/gorm"
)

// TicketStorer is the full gateway operation set. Handlers depend on this
// interface so tests can substitute the store.
type TicketStorer interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error)
	Update(ctx context.Context, id string, changes map[string]any) (*model.Ticket, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter map[string]any, page, pageSize int) ([]model.Ticket, error)
	Search(ctx context.Context, keyword string, page, pageSize int) ([]model.Ticket, error)
	Statistics(ctx context.Context) (*model.TicketSummary, error)
}

// TicketService is the only component that talks to the tickets table.
type TicketService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketService(db *gorm.DB, log *logger.Logger) *TicketService {
	return &TicketService{db: db, log: log.With("service", "TicketService")}
}

func (s *TicketService) Create(ctx context.Context, t *model.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		s.log.Error("create ticket", "error", err)
		return err
	}
	return nil
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	return s.getOne(ctx, "id = ?", id)
}

func (s *TicketService) GetByNumber(ctx context.Context, ticketNumber string) (*model.Ticket, error) {
	return s.getOne(ctx, "ticket_number = ?", ticketNumber)
}

func (s *TicketService) getOne(ctx context.Context, query string, arg any) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).Where(query, arg).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		s.log.Error("fetch ticket", "error", err)
		return nil, err
	}
	return &t, nil
}

// Update applies the supplied partial field set, unconditionally stamping
// updated_at. It does not check the target exists first; callers that need a
// 404 do their own prior read, and the read-then-write pair is not atomic.
func (s *TicketService) Update(ctx context.Context, id string, changes map[string]any) (*model.Ticket, error) {
	merged := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		merged[k] = v
	}
	merged["updated_at"] = time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).Updates(merged).Error; err != nil {
		s.log.Error("update ticket", "id", id, "error", err)
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the record. The boolean reports whether a row was deleted.
func (s *TicketService) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Ticket{})
	if res.Error != nil {
		s.log.Error("delete ticket", "id", id, "error", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns one page of tickets matching every filter exactly, newest
// first. Filter keys are gorm conditions ("status = ?"); all filters AND
// together.
func (s *TicketService) List(ctx context.Context, filter map[string]any, page, pageSize int) ([]model.Ticket, error) {
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	for k, v := range filter {
		tx = tx.Where(k, v)
	}
	var items []model.Ticket
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		s.log.Error("list tickets", "error", err)
		return nil, err
	}
	return items, nil
}

// Search matches keyword as a case-insensitive substring of title or
// description. No relevance ranking; creation-date order only.
func (s *TicketService) Search(ctx context.Context, keyword string, page, pageSize int) ([]model.Ticket, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"
	var items []model.Ticket
	if err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("lower(title) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		s.log.Error("search tickets", "keyword", keyword, "error", err)
		return nil, err
	}
	return items, nil
}

// Statistics runs five independent count queries. Deliberately not batched
// into one grouped query; observable output is the contract here.
func (s *TicketService) Statistics(ctx context.Context) (*model.TicketSummary, error) {
	counts := []struct {
		dst   *int64
		query string
		arg   any
	}{
		{query: "", arg: nil},
		{query: "status = ?", arg: model.TicketStatusOpen},
		{query: "status = ?", arg: model.TicketStatusInProgress},
		{query: "priority = ?", arg: model.TicketPriorityHigh},
		{query: "priority = ?", arg: model.TicketPriorityCritical},
	}
	var sum model.TicketSummary
	counts[0].dst = &sum.TotalTickets
	counts[1].dst = &sum.OpenTickets
	counts[2].dst = &sum.InProgressTickets
	counts[3].dst = &sum.HighPriorityTickets
	counts[4].dst = &sum.CriticalTickets
	for _, c := range counts {
		tx := s.db.WithContext(ctx).Model(&model.Ticket{})
		if c.query != "" {
			tx = tx.Where(c.query, c.arg)
		}
		if err := tx.Count(c.dst).Error; err != nil {
			s.log.Error("ticket statistics", "error", err)
			return nil, err
		}
	}
	return &sum, nil
}
