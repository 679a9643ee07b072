package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/motofleet/courier-rental/internal/api/dto"
	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/service"
	apperrors "github.com/motofleet/courier-rental/pkg/util/errorutil"
)

// VehiclesHandler manages the vehicle registry endpoints.
type VehiclesHandler struct {
	service *service.VehicleService
}

// NewVehiclesHandler constructs handler.
func NewVehiclesHandler(vehicleService *service.VehicleService) *VehiclesHandler {
	return &VehiclesHandler{service: vehicleService}
}

// Register POST /v1/vehicles.
func (h *VehiclesHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	vehicle, err := h.service.Register(c.UserContext(), service.VehicleRegisterInput{
		ID:    req.ID,
		Year:  req.Year,
		Model: req.Model,
		Plate: req.Plate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": vehicleResponse(vehicle)})
}

// List GET /v1/vehicles?plate=&page=&page_size=.
func (h *VehiclesHandler) List(c *fiber.Ctx) error {
	vehicles, err := h.service.List(c.UserContext(), parseVehicleQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, vehicleResponse(&vehicles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /v1/vehicles/:id.
func (h *VehiclesHandler) Get(c *fiber.Ctx) error {
	vehicle, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicleResponse(vehicle)})
}

// UpdatePlate PUT /v1/vehicles/:id/plate.
func (h *VehiclesHandler) UpdatePlate(c *fiber.Ctx) error {
	var req dto.UpdatePlateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	vehicle, err := h.service.UpdatePlate(c.UserContext(), c.Params("id"), req.Plate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicleResponse(vehicle)})
}

// Remove DELETE /v1/vehicles/:id.
func (h *VehiclesHandler) Remove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseVehicleQuery(c *fiber.Ctx) service.VehicleListFilter {
	filter := service.VehicleListFilter{Plate: c.Query("plate")}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func vehicleResponse(v *domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:        v.ID,
		Year:      v.Year,
		Model:     v.Model,
		Plate:     v.Plate,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
