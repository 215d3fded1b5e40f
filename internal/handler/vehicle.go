package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/rate"
	"github.com/iliyamo/parking-garage-api/internal/repository"
)

// VehicleStore is the persistence contract the vehicle handlers depend
// on, implemented by repository.VehicleRepo.
type VehicleStore interface {
	Create(ctx context.Context, v *model.Vehicle) error
	GetByID(ctx context.Context, id uint64) (*model.Vehicle, error)
	List(ctx context.Context) ([]*model.Vehicle, error)
	Update(ctx context.Context, id uint64, fields map[string]any) (*model.Vehicle, error)
	Delete(ctx context.Context, id uint64) (*model.Vehicle, error)
}

// VehicleHandler bundles dependencies for the vehicle endpoints.
type VehicleHandler struct {
	Vehicles VehicleStore
}

func NewVehicleHandler(v VehicleStore) *VehicleHandler {
	return &VehicleHandler{Vehicles: v}
}

type vehicleCreateReq struct {
	VehicleType string `json:"vehicle_type"`
	License     string `json:"license"`
}

// Create handles POST /api/vehicles (authenticated). The owner snapshot
// comes from the caller's token claims, never from the request body, so
// a client cannot register a vehicle under someone else's name.
func (h *VehicleHandler) Create(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req vehicleCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	v := model.Vehicle{
		User:        model.UserSnapshot{FirstName: claims.FirstName, LastName: claims.LastName},
		VehicleType: req.VehicleType,
		License:     req.License,
	}
	if err := model.ValidateNewVehicle(v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if v.VehicleType == "" {
		v.VehicleType = rate.VehicleCompact
	}
	if err := h.Vehicles.Create(c.Request().Context(), &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create vehicle"})
	}
	return c.JSON(http.StatusOK, v)
}

// List handles GET /api/vehicles.
func (h *VehicleHandler) List(c echo.Context) error {
	items, err := h.Vehicles.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Vehicle{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/vehicles/:id.
func (h *VehicleHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
	}
	v, err := h.Vehicles.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Update handles PUT /api/vehicles/:id (authenticated, partial update).
func (h *VehicleHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
	}
	var u model.VehicleUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := model.ValidateVehicleUpdate(u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.Vehicles.Update(c.Request().Context(), id, u.Fields())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /api/vehicles/:id (authenticated).
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
	}
	v, err := h.Vehicles.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the vehicle with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, v)
}
