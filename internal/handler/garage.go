package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/config"
	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/repository"
)

// GarageStore is the persistence contract the garage handlers depend on,
// implemented by repository.GarageRepo.
type GarageStore interface {
	Create(ctx context.Context, g *model.Garage) error
	GetByID(ctx context.Context, id uint64) (*model.Garage, error)
	List(ctx context.Context) ([]*model.Garage, error)
	Update(ctx context.Context, id uint64, fields map[string]any) (*model.Garage, error)
	Delete(ctx context.Context, id uint64) (*model.Garage, error)
	PrefixExists(ctx context.Context, prefix string, excludeID uint64) (bool, error)
}

// GarageHandler bundles dependencies for the garage endpoints. All
// mutations sit behind the admin gate; reads are open.
type GarageHandler struct {
	Cfg     config.Config
	Garages GarageStore
}

func NewGarageHandler(cfg config.Config, g GarageStore) *GarageHandler {
	return &GarageHandler{Cfg: cfg, Garages: g}
}

// Create handles POST /api/garages (admin). A garage whose prefix is
// already taken is rejected before anything is persisted.
func (h *GarageHandler) Create(c echo.Context) error {
	var g model.Garage
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	g.ID = 0
	if err := model.ValidateNewGarage(g); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Garages.Create(c.Request().Context(), &g); err != nil {
		if errors.Is(err, repository.ErrDuplicatePrefix) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "a garage with the same prefix already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create garage"})
	}
	return c.JSON(http.StatusOK, g)
}

// List handles GET /api/garages.
func (h *GarageHandler) List(c echo.Context) error {
	items, err := h.Garages.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Garage{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/garages/:id.
func (h *GarageHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
	}
	g, err := h.Garages.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, g)
}

// Update handles PUT /api/garages/:id (admin, partial update). Fields
// absent from the payload keep their stored values. Prefix uniqueness is
// re-checked only when the recheck policy is enabled; by default the
// original behavior (check at creation only) is preserved.
func (h *GarageHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
	}
	var u model.GarageUpdate
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := model.ValidateGarageUpdate(u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if u.Prefix != nil && h.Cfg.GaragePrefixRecheck {
		taken, err := h.Garages.PrefixExists(ctx, *u.Prefix, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "a garage with the same prefix already exists"})
		}
	}

	g, err := h.Garages.Update(ctx, id, u.Fields())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
		case errors.Is(err, repository.ErrDuplicatePrefix):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "a garage with the same prefix already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /api/garages/:id (admin). Dependent spots are
// not cascaded; they keep their embedded snapshot.
func (h *GarageHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
	}
	g, err := h.Garages.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "the garage with the given id does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, g)
}
