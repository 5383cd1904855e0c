package contact

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

const defaultListLimit = 200

// Service records public contact-form enquiries for admins to review.
type Service struct {
	messages repository.ContactRepository
	logger   zerolog.Logger
}

func NewService(messages repository.ContactRepository, logger zerolog.Logger) *Service {
	return &Service{
		messages: messages,
		logger:   logger.With().Str("component", "contact").Logger(),
	}
}

func (s *Service) Submit(ctx context.Context, req *model.ContactRequest) (*model.ContactMessage, error) {
	m := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", m.Email).Str("subject", m.Subject).Msg("contact message received")
	return m, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.messages.List(ctx, limit)
}
