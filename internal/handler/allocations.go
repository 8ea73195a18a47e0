package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/apierror"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

type AllocationsHandler struct{ svc service.AllocationService }

func NewAllocationsHandler(svc service.AllocationService) *AllocationsHandler {
	return &AllocationsHandler{svc: svc}
}

// PreviewDistribution godoc
// @Summary      Preview a percentage distribution
// @Description  Splits a quantity across locations by percentage. Pure calculation — nothing is persisted.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PreviewDistributionRequest true "Quantity and percentages"
// @Success      200  {object} dto.DistributionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/allocations/preview [post]
func (h *AllocationsHandler) PreviewDistribution(c *gin.Context) {
	var req dto.PreviewDistributionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PreviewDistribution(c.Request.Context(), req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Plan godoc
// @Summary      Plan an allocation with a strategy
// @Description  Applies MANUAL, PERCENTAGE, or FIXED_AMOUNT strategy to a line item. Advisory only.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PlanAllocationRequest true "Strategy and targets"
// @Success      200  {object} dto.AllocationPlanResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/allocations/plan [post]
func (h *AllocationsHandler) Plan(c *gin.Context) {
	var req dto.PlanAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Plan(c.Request.Context(), tenantID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validate godoc
// @Summary      Validate allocation math
// @Description  Checks a candidate allocation against the ordered quantity and existing allocations without persisting.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAllocationRequest true "Candidate allocation"
// @Success      200  {object} dto.MathCheckResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/allocations/validate [post]
func (h *AllocationsHandler) Validate(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Validate(c.Request.Context(), tenantID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create an allocation
// @Description  Persists an allocation after the math check passes. Over-allocation is always rejected.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAllocationRequest true "Allocation data"
// @Success      201  {object} dto.AllocationResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/allocations [post]
func (h *AllocationsHandler) Create(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, tenantID := callerIDs(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByLineItem godoc
// @Summary      List allocations for a line item
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Param        lineItemId path string true "Line item UUID"
// @Success      200  {array} dto.AllocationResponse
// @Router       /v1/line-items/{lineItemId}/allocations [get]
func (h *AllocationsHandler) ListByLineItem(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("lineItemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.ListByLineItem(c.Request.Context(), tenantID, lineItemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Unallocated godoc
// @Summary      Remaining unallocated quantity for a line item
// @Tags         allocations
// @Produce      json
// @Security     BearerAuth
// @Param        lineItemId path string true "Line item UUID"
// @Success      200  {object} dto.UnallocatedResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/line-items/{lineItemId}/unallocated [get]
func (h *AllocationsHandler) Unallocated(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("lineItemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid ID"))
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.Unallocated(c.Request.Context(), tenantID, lineItemID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
