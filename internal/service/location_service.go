package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/model"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
)

type LocationService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.LocationResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.LocationResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	loc := &model.Location{
		TenantID: tenantID,
		Name:     req.Name,
		Type:     req.Type,
		Address:  req.Address,
		Active:   true,
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return locationToResponse(loc), nil
}

func (s *locationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.LocationResponse, error) {
	loc, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, engine.NewNotFoundError("Location not found")
	}
	return locationToResponse(loc), nil
}

func (s *locationService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.LocationResponse, error) {
	locations, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LocationResponse, len(locations))
	for i := range locations {
		resp[i] = *locationToResponse(&locations[i])
	}
	return resp, nil
}

func (s *locationService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, engine.NewNotFoundError("Location not found")
	}
	if req.Name != "" {
		loc.Name = req.Name
	}
	if req.Type != "" {
		loc.Type = req.Type
	}
	if req.Address != nil {
		loc.Address = req.Address
	}
	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return locationToResponse(loc), nil
}

func (s *locationService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, tenantID, id)
}

func locationToResponse(l *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Type:      l.Type,
		Address:   l.Address,
		Active:    l.Active,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}
