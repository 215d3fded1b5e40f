package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/queue"
	"github.com/iliyamo/parking-garage-api/internal/rate"
	"github.com/iliyamo/parking-garage-api/internal/repository"
)

// SpotStore is the persistence contract the spot handlers depend on,
// implemented by repository.SpotRepo.
type SpotStore interface {
	Create(ctx context.Context, s *model.Spot) error
	GetByID(ctx context.Context, id uint64) (*model.Spot, error)
	List(ctx context.Context) ([]*model.Spot, error)
	Update(ctx context.Context, id uint64, fields map[string]any) (*model.Spot, error)
	Delete(ctx context.Context, id uint64) (*model.Spot, error)
}

// StatusPublisher emits occupancy events when a spot's status changes.
// Publishing is best-effort; a broker outage never fails the request.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, ev queue.SpotStatusChangedEvent) error
}

// SpotHandler bundles dependencies for the spot endpoints. It is the
// single entry point for spot mutation, so the cached rate can never be
// bypassed: every vehicle_type assignment re-derives it here.
type SpotHandler struct {
	Spots  SpotStore
	Events StatusPublisher // optional; nil disables occupancy events
}

func NewSpotHandler(s SpotStore, ev StatusPublisher) *SpotHandler {
	return &SpotHandler{Spots: s, Events: ev}
}

// spotCreateReq mirrors the creation payload. The rate is deliberately
// absent: clients cannot supply it when a garage reference is given, the
// server derives it.
type spotCreateReq struct {
	Garage      *model.GarageSnapshot `json:"garage"`
	VehicleType string                `json:"vehicle_type"`
	Status      string                `json:"status"`
}

// Create handles POST /api/spots (admin). When the payload embeds a
// garage, the rate is resolved from the snapshot's rate table and the
// requested vehicle class BEFORE validation, so a payload missing
// required fields still fails cleanly after the computation.
func (h *SpotHandler) Create(c echo.Context) error {
	var req spotCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	s := model.Spot{VehicleType: req.VehicleType, Status: req.Status}
	if req.Garage != nil {
		s.Garage = *req.Garage
		s.Rate = rate.Resolve(req.VehicleType, req.Garage.Rates())
	}
	if err := model.ValidateNewSpot(s, req.Garage != nil); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if s.Status == "" {
		s.Status = model.StatusEmpty
	}

	if err := h.Spots.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create spot"})
	}
	return c.JSON(http.StatusOK, s)
}

// List handles GET /api/spots.
func (h *SpotHandler) List(c echo.Context) error {
	items, err := h.Spots.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Spot{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/spots/:id.
func (h *SpotHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
	}
	s, err := h.Spots.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update handles PUT /api/spots/:id (admin, partial update).
//
// When vehicle_type is part of the payload the workflow loads the
// existing spot, resolves the new rate against the spot's embedded
// garage snapshot (not the live garage, which may have changed or be
// gone) and injects the computed rate into the update. Without a
// vehicle_type change the stored rate is left alone and status updates
// independently.
//
// The load and the write are two round trips with no isolation between
// them; a concurrent update racing in between is last-writer-wins.
func (h *SpotHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
	}
	var u model.SpotUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := model.ValidateSpotUpdate(u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	fields := map[string]any{}
	var prevStatus string

	if u.VehicleType != nil {
		existing, err := h.Spots.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		prevStatus = existing.Status
		fields["vehicle_type"] = *u.VehicleType
		if newRate := rate.Resolve(*u.VehicleType, existing.Garage.Rates()); newRate != "" {
			fields["rate"] = newRate
		}
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}

	s, err := h.Spots.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if u.Status != nil && h.Events != nil && *u.Status != prevStatus {
		ev := queue.SpotStatusChangedEvent{
			SpotID:      s.ID,
			GarageAlias: s.Garage.Alias,
			VehicleType: s.VehicleType,
			Status:      s.Status,
			Rate:        s.Rate,
			ChangedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Events.PublishStatusChanged(context.Background(), ev) }()
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /api/spots/:id (admin).
func (h *SpotHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
	}
	s, err := h.Spots.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the spot with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, s)
}
