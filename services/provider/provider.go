package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	providerRepo "shinely/database/repository/provider"
	"shinely/models"
	"shinely/services/booking"
	"shinely/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CodeInvalidSchedule = "invalid_schedule"

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo   providerRepo.ProviderRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository) (*DefaultProviderService, error) {
	if repo == nil {
		return nil, fmt.Errorf("provider service initialization error: repository is nil")
	}
	return &DefaultProviderService{Repo: repo, Logger: utils.GetLogger(), Now: time.Now}, nil
}

func (s *DefaultProviderService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultProviderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultProviderService) RegisterProvider(ctx context.Context, p models.Provider) (*models.Provider, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, booking.NewSchedulingError(booking.KindInvalidInput, CodeInvalidSchedule, "name", "provider name is required")
	}
	if err := ValidateSchedule(p.Schedule); err != nil {
		return nil, err
	}
	if err := booking.ValidateCatalog(p.Catalog); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	p.Currency = strings.ToLower(p.Currency)
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt

	if err := s.Repo.Create(ctx, &p); err != nil {
		s.logger().Error("failed to create provider", zap.String("providerID", p.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	s.logger().Info("provider registered", zap.String("providerID", p.ID), zap.Int("services", len(p.Catalog)))
	return &p, nil
}

func (s *DefaultProviderService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(id, err)
	}
	return p, nil
}

func (s *DefaultProviderService) UpdateSchedule(ctx context.Context, id string, schedule models.ProviderSchedule) (*models.Provider, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateSchedule(ctx, id, schedule); err != nil {
		return nil, s.mapErr(id, err)
	}
	s.logger().Info("provider schedule updated", zap.String("providerID", id),
		zap.Int("workingDays", len(schedule.WorkingHours)),
		zap.Int("travelBuffer", schedule.TravelBufferMinutes))
	return s.GetProvider(ctx, id)
}

func (s *DefaultProviderService) UpdateCatalog(ctx context.Context, id string, catalog []models.ServiceCatalogItem) (*models.Provider, error) {
	if err := booking.ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateCatalog(ctx, id, catalog); err != nil {
		return nil, s.mapErr(id, err)
	}
	s.logger().Info("provider catalog updated", zap.String("providerID", id), zap.Int("services", len(catalog)))
	return s.GetProvider(ctx, id)
}

func (s *DefaultProviderService) mapErr(id string, err error) error {
	if errors.Is(err, providerRepo.ErrProviderNotFound) {
		return booking.NewSchedulingError(booking.KindNotFound, booking.CodeUnknownProvider, "providerId",
			fmt.Sprintf("provider %s not found", id))
	}
	s.logger().Error("provider repository failure", zap.String("providerID", id), zap.Error(err))
	return fmt.Errorf("provider %s: %w", id, err)
}

// ValidateSchedule rejects hours outside the day, a lunch window outside
// [0, 1440), a negative travel buffer, duplicate weekdays and unknown timezones.
func ValidateSchedule(s models.ProviderSchedule) error {
	seen := make(map[time.Weekday]bool, len(s.WorkingHours))
	for _, h := range s.WorkingHours {
		if h.Weekday < time.Sunday || h.Weekday > time.Saturday {
			return invalidSchedule("workingHours", fmt.Sprintf("unknown weekday %d", h.Weekday))
		}
		if seen[h.Weekday] {
			return invalidSchedule("workingHours", fmt.Sprintf("%s is listed twice", h.Weekday))
		}
		seen[h.Weekday] = true
		if h.Open < 0 || h.Close > utils.MinutesPerDay || h.Open > h.Close {
			return invalidSchedule("workingHours", fmt.Sprintf("%s hours must satisfy 0 <= open <= close <= %d", h.Weekday, utils.MinutesPerDay))
		}
	}
	if l := s.Lunch; l != nil && (l.Start < 0 || l.End > utils.MinutesPerDay || l.Start >= l.End) {
		return invalidSchedule("lunch", "lunch must be a non-empty window inside the day")
	}
	if s.TravelBufferMinutes < 0 {
		return invalidSchedule("travelBufferMinutes", "travel buffer cannot be negative")
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return invalidSchedule("timezone", fmt.Sprintf("unknown timezone %q", s.Timezone))
		}
	}
	return nil
}

func invalidSchedule(field, msg string) error {
	return booking.NewSchedulingError(booking.KindInvalidInput, CodeInvalidSchedule, field, msg)
}
