package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/motofleet/courier-rental/internal/api/dto"
	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/service"
	apperrors "github.com/motofleet/courier-rental/pkg/util/errorutil"
)

// CouriersHandler manages courier onboarding endpoints.
type CouriersHandler struct {
	service *service.CourierService
}

// NewCouriersHandler constructs handler.
func NewCouriersHandler(courierService *service.CourierService) *CouriersHandler {
	return &CouriersHandler{service: courierService}
}

// Register POST /v1/couriers.
func (h *CouriersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCourierRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	courier, err := h.service.Register(c.UserContext(), service.CourierRegisterInput{
		ID:            req.ID,
		Name:          req.Name,
		TaxID:         req.TaxID,
		BirthDate:     req.BirthDate.Time,
		LicenseNumber: req.LicenseNumber,
		LicenseType:   req.LicenseType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": courierResponse(courier)})
}

// Get GET /v1/couriers/:id.
func (h *CouriersHandler) Get(c *fiber.Ctx) error {
	courier, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courierResponse(courier)})
}

func courierResponse(courier *domain.Courier) dto.CourierResponse {
	return dto.CourierResponse{
		ID:            courier.ID,
		Name:          courier.Name,
		TaxID:         courier.TaxID,
		BirthDate:     courier.BirthDate.Format("2006-01-02"),
		LicenseNumber: courier.LicenseNumber,
		LicenseType:   courier.LicenseType,
		CreatedAt:     courier.CreatedAt,
	}
}
