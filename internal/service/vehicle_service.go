package service

import (
	"context"
	"strings"

	"fleetrental/internal/db"
	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
	"fleetrental/internal/utils"
)

type VehicleService struct {
	Repo *repository.VehicleRepository
}

func NewVehicleService(repo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{Repo: repo}
}

func (s *VehicleService) ListVehicles(ctx context.Context, vehicleType string, onlyAvailable bool) (*entities.VehicleList, error) {
	vehicles, err := s.Repo.ListVehicles(ctx, vehicleType, onlyAvailable)
	if err != nil {
		return nil, storageError("list vehicles", err)
	}
	list := &entities.VehicleList{Vehicles: []entities.VehicleResponse{}}
	for i := range vehicles {
		list.Vehicles = append(list.Vehicles, toVehicleResponse(&vehicles[i]))
	}
	list.Count = len(list.Vehicles)
	return list, nil
}

func (s *VehicleService) GetVehicle(ctx context.Context, id int) (*entities.VehicleResponse, error) {
	vehicle, err := s.Repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, storageError("load vehicle", err)
	}
	if vehicle == nil {
		return nil, apperrors.NotFound("vehicle not found")
	}
	resp := toVehicleResponse(vehicle)
	return &resp, nil
}

func (s *VehicleService) CreateVehicle(ctx context.Context, req *entities.VehicleRequest) (*entities.VehicleResponse, error) {
	if err := validateVehicle(req); err != nil {
		return nil, err
	}
	vehicle := vehicleFromRequest(req)
	if err := s.Repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, storageError("create vehicle", err)
	}
	resp := toVehicleResponse(vehicle)
	return &resp, nil
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, id int, req *entities.VehicleRequest) (*entities.VehicleResponse, error) {
	if err := validateVehicle(req); err != nil {
		return nil, err
	}
	vehicle := vehicleFromRequest(req)
	vehicle.ID = id
	rows, err := s.Repo.UpdateVehicle(ctx, vehicle)
	if err != nil {
		return nil, storageError("update vehicle", err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("vehicle not found")
	}
	resp := toVehicleResponse(vehicle)
	return &resp, nil
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id int) error {
	rows, err := s.Repo.DeleteVehicle(ctx, id)
	if err != nil {
		return storageError("delete vehicle", err)
	}
	if rows == 0 {
		return apperrors.NotFound("vehicle not found")
	}
	return nil
}

func validateVehicle(req *entities.VehicleRequest) error {
	if strings.TrimSpace(req.Model) == "" {
		return apperrors.Validation("vehicle model is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		return apperrors.Validation("vehicle type is required")
	}
	if req.DailyRate <= 0 {
		return apperrors.Validation("daily_rate must be positive")
	}
	return nil
}

func vehicleFromRequest(req *entities.VehicleRequest) *db.Vehicle {
	return &db.Vehicle{
		Model:          strings.TrimSpace(req.Model),
		Type:           strings.TrimSpace(req.Type),
		DailyRateCents: utils.AmountToCents(req.DailyRate),
		Availability:   req.Availability,
		Seats:          req.Seats,
	}
}

func toVehicleResponse(v *db.Vehicle) entities.VehicleResponse {
	return entities.VehicleResponse{
		ID:           v.ID,
		Model:        v.Model,
		Type:         v.Type,
		DailyRate:    utils.CentsToAmount(v.DailyRateCents),
		Availability: v.Availability,
		Seats:        v.Seats,
	}
}
