package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/motofleet/courier-rental/internal/api/dto"
	"github.com/motofleet/courier-rental/internal/auth"
	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/pricing"
	"github.com/motofleet/courier-rental/internal/service"
	apperrors "github.com/motofleet/courier-rental/pkg/util/errorutil"
)

// RentalsHandler exposes the rental lifecycle.
type RentalsHandler struct {
	rentals     *service.RentalService
	settlements *service.SettlementService
}

// NewRentalsHandler constructs handler.
func NewRentalsHandler(rentals *service.RentalService, settlements *service.SettlementService) *RentalsHandler {
	return &RentalsHandler{rentals: rentals, settlements: settlements}
}

// Plans GET /v1/plans.
func (h *RentalsHandler) Plans(c *fiber.Ctx) error {
	plans := pricing.Plans()
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, terms := range plans {
		out = append(out, dto.PlanResponse{
			Days:               terms.Plan,
			DailyRate:          terms.DailyRate.StringFixed(2),
			EarlyReturnPenalty: terms.EarlyReturnPenalty.StringFixed(2),
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Open POST /v1/rentals.
// A courier principal always rents for itself; admins name the courier.
func (h *RentalsHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Role == domain.RoleCourier {
		if req.CourierID != "" && req.CourierID != principal.SubjectID {
			return fiber.NewError(http.StatusForbidden, "couriers can only rent for themselves")
		}
		req.CourierID = principal.SubjectID
	}
	if req.CourierID == "" || req.VehicleID == "" || req.PlannedStart.IsZero() || req.PlannedEnd.IsZero() {
		return apperrors.NewValidationError("courier_id, vehicle_id, start_date, expected_end_date required", nil)
	}
	rental, err := h.rentals.OpenRental(c.UserContext(), service.OpenRentalInput{
		CourierID:    req.CourierID,
		VehicleID:    req.VehicleID,
		PlannedStart: req.PlannedStart.Time,
		PlannedEnd:   req.PlannedEnd.Time,
		Plan:         req.Plan,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": rentalResponse(rental)})
}

// Get GET /v1/rentals/:id.
func (h *RentalsHandler) Get(c *fiber.Ctx) error {
	rental, err := h.rentals.FindRental(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rentalResponse(rental)})
}

// Return POST /v1/rentals/:id/return.
func (h *RentalsHandler) Return(c *fiber.Ctx) error {
	var req dto.ReturnRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if req.ReturnDate.IsZero() {
		return apperrors.NewValidationError("return_date required", nil)
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Role == domain.RoleCourier {
		rental, err := h.rentals.FindRental(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		if rental.CourierID != principal.SubjectID {
			return fiber.NewError(http.StatusForbidden, "rental belongs to another courier")
		}
	}
	settlement, err := h.settlements.Settle(c.UserContext(), c.Params("id"), req.ReturnDate.Time)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettlementResponse{
		RentalID:   settlement.RentalID,
		ReturnDate: settlement.ReturnDate,
		DailyRate:  settlement.DailyRate.StringFixed(2),
		Penalty:    settlement.Penalty.StringFixed(2),
		Total:      settlement.Total.StringFixed(2),
		Reason:     settlement.Reason,
	}})
}

func rentalResponse(rental *domain.Rental) dto.RentalResponse {
	return dto.RentalResponse{
		ID:             rental.ID,
		CourierID:      rental.CourierID,
		VehicleID:      rental.VehicleID,
		Plan:           rental.Plan,
		Status:         rental.Status(),
		StartDate:      rental.StartDate,
		ExpectedReturn: rental.ExpectedReturn,
		ReturnedAt:     rental.ReturnedAt,
		TotalValue:     rental.TotalValue.StringFixed(2),
		CreatedAt:      rental.CreatedAt,
	}
}
