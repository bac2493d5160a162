package service

import (
	"context"
	"errors"

	"github.com/sahay-helpdesk/helpdesk-service/internal/errs"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/model"
	"gorm.io/gorm"
)

// ProfileStorer is the read-only view of the profiles side table.
type ProfileStorer interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

type ProfileService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileService(db *gorm.DB, log *logger.Logger) *ProfileService {
	return &ProfileService{db: db, log: log.With("service", "ProfileService")}
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProfileNotFound
		}
		s.log.Error("fetch profile", "error", err)
		return nil, err
	}
	return &p, nil
}
