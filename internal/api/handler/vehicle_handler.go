package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// VehicleHandler handles the vehicle picker and admin vehicle management.
type VehicleHandler struct {
	service ports.VehicleService
}

func NewVehicleHandler(service ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

type vehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required"`
	Model        string `json:"model"         validate:"required"`
	Status       string `json:"status"        validate:"omitempty,oneof=active inactive"`
}

type vehicleResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
	Status       string `json:"status"`
}

type vehicleListResponse struct {
	Items []vehicleResponse `json:"items"`
}

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:           v.ID,
		LicensePlate: v.LicensePlate,
		Model:        v.Model,
		Status:       string(v.Status),
	}
}

// List handles GET /v1/vehicles: the picker list. Drivers only see active
// vehicles; admins see the whole fleet.
//
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  vehicleListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	vehicles, err := h.service.ListForRole(c.Request().Context(), claims.Role)
	if err != nil {
		return err
	}

	items := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, toVehicleResponse(v))
	}
	return c.JSON(http.StatusOK, vehicleListResponse{Items: items})
}

// Create handles POST /v1/admin/vehicles.
//
// @Summary      Create a vehicle (admin)
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      vehicleRequest  true  "New vehicle"
// @Success      201   {object}  vehicleResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/admin/vehicles [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	req, err := bindVehicleRequest(c)
	if err != nil {
		return err
	}

	vehicle, err := h.service.Create(c.Request().Context(), toVehicleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVehicleResponse(vehicle))
}

// Update handles PUT /v1/admin/vehicles/:id.
//
// @Summary      Update a vehicle (admin)
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Vehicle id"
// @Param        body  body      vehicleRequest  true  "Updated fields"
// @Success      200   {object}  vehicleResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/vehicles/{id} [put]
func (h *VehicleHandler) Update(c echo.Context) error {
	req, err := bindVehicleRequest(c)
	if err != nil {
		return err
	}

	vehicle, err := h.service.Update(c.Request().Context(), c.Param("id"), toVehicleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// Delete handles DELETE /v1/admin/vehicles/:id. Vehicles still referenced by
// entries cannot be deleted; mark them inactive instead.
//
// @Summary      Delete a vehicle (admin)
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Vehicle id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/admin/vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindVehicleRequest(c echo.Context) (vehicleRequest, error) {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

func toVehicleInput(req vehicleRequest) ports.VehicleInput {
	return ports.VehicleInput{
		LicensePlate: req.LicensePlate,
		Model:        req.Model,
		Status:       domain.VehicleStatus(req.Status),
	}
}
