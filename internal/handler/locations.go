package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/apierror"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateLocationRequest true "Location data"
// @Success      201  {object} dto.LocationResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/locations [post]
func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Location UUID"
// @Success      200  {object} dto.LocationResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/locations/{id} [get]
func (h *LocationsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List active locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LocationResponse
// @Router       /v1/locations [get]
func (h *LocationsHandler) List(c *gin.Context) {
	_, tenantID := callerIDs(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Location UUID"
// @Param        body body dto.UpdateLocationRequest true "Fields to update"
// @Success      200  {object} dto.LocationResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/locations/{id} [put]
func (h *LocationsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	var req dto.UpdateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a location
// @Tags         locations
// @Security     BearerAuth
// @Param        id path string true "Location UUID"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/locations/{id} [delete]
func (h *LocationsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	_, tenantID := callerIDs(c)
	if err := h.svc.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
