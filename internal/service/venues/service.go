package venues

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/venues/models"
)

// Service сервис справочника площадок
type Service struct {
	venueRepo VenueRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(venueRepo VenueRepository, logger Logger) *Service {
	return &Service{
		venueRepo: venueRepo,
		logger:    logger,
	}
}

// List возвращает площадки, по умолчанию только активные
func (s *Service) List(ctx context.Context, includeInactive bool) (*models.VenueListResponse, error) {
	list, err := s.venueRepo.List(ctx, !includeInactive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d venues, includeInactive=%t", len(list), includeInactive)
	return models.FromDomainVenueList(list), nil
}
