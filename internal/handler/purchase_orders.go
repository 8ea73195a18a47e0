package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/apierror"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

// Create godoc
// @Summary      Create a purchase order
// @Description  Creates an order with its line items. Line totals are computed server-side.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePurchaseOrderRequest true "Order data"
// @Success      201  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/purchase-orders [post]
func (h *PurchaseOrdersHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
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

// Get godoc
// @Summary      Get a purchase order with its line items
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/purchase-orders/{id} [get]
func (h *PurchaseOrdersHandler) Get(c *gin.Context) {
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
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "OPEN | RECEIVED | CLOSED | all"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Records per page (default 50)"
// @Success      200  {object} dto.PurchaseOrderListResponse
// @Router       /v1/purchase-orders [get]
func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	var filter dto.PurchaseOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	_, tenantID := callerIDs(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
