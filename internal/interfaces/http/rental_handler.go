package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/rental"
)

// RentalHandler maneja los pedidos de alquiler y su ciclo de vida.
type RentalHandler struct {
	uc  *rental.RentalUseCase
	log zerolog.Logger
}

// NewRentalHandler construye el handler.
func NewRentalHandler(uc *rental.RentalUseCase, log zerolog.Logger) *RentalHandler {
	return &RentalHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear pedido (checkout)
// @Description  Copia precios y datos de entrega al pedido y vacía el carrito del usuario del token.
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRentalRequest  true  "Productos, datos de entrega y fecha"
// @Success      201   {object}  dto.RentalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rentals [post]
func (h *RentalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRentalRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAll godoc
// @Summary      Listar todos los pedidos
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.RentalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/rentals/all [get]
func (h *RentalHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Pedidos de un usuario
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {array}   dto.RentalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/rentals/my-orders/{userId} [get]
func (h *RentalHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), actorFrom(c), c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.RentalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Agreement godoc
// @Summary      Contrato de alquiler en PDF
// @Tags         rentals
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/agreement [get]
func (h *RentalHandler) Agreement(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Agreement(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="contrato-%s.pdf"`, id))
	return c.Send(pdf)
}

// RequestMaintenance godoc
// @Summary      Solicitar mantenimiento
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.RentalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rentals/maintenance/{id} [put]
func (h *RentalHandler) RequestMaintenance(c *fiber.Ctx) error {
	out, err := h.uc.RequestMaintenance(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateMaintenance godoc
// @Summary      Avanzar el estado de mantenimiento
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateMaintenanceRequest  true  "in-progress o resolved"
// @Success      200  {object}  dto.RentalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rentals/maintenance-status/{id} [put]
func (h *RentalHandler) UpdateMaintenance(c *fiber.Ctx) error {
	var in dto.UpdateMaintenanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateMaintenance(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SchedulePickup godoc
// @Summary      Programar recogida
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.SchedulePickupRequest  true  "pickupDate"
// @Success      200  {object}  dto.RentalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rentals/schedule-pickup/{id} [put]
func (h *RentalHandler) SchedulePickup(c *fiber.Ctx) error {
	var in dto.SchedulePickupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SchedulePickup(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CompletePickup godoc
// @Summary      Confirmar recogida y cerrar el pedido
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.RentalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rentals/complete-pickup/{id} [put]
func (h *RentalHandler) CompletePickup(c *fiber.Ctx) error {
	out, err := h.uc.CompletePickup(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.CancelRentalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rentals/cancel/{id} [put]
func (h *RentalHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.CancelRentalResponse{Message: "Order cancelled successfully", Rental: *out})
}

// Delete godoc
// @Summary      Borrar pedido del historial
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rentals/{id} [delete]
func (h *RentalHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteHistory(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Order removed from history"})
}
