package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

// TransfersHandler exposes the transfer endpoints. All responses use the
// success/data/message envelope so clients can branch on one shape.
type TransfersHandler struct{ svc service.TransferService }

func NewTransfersHandler(svc service.TransferService) *TransfersHandler {
	return &TransfersHandler{svc: svc}
}

func transferOK(c *gin.Context, status int, data *dto.TransferResponse, message string) {
	c.JSON(status, dto.TransferEnvelope{Success: true, Data: data, Message: message})
}

// writeTransferError maps service/engine errors onto the envelope. Tenant
// mismatches take the not-found shape so cross-tenant probing cannot tell
// "absent" from "not yours".
func writeTransferError(c *gin.Context, action string, err error) {
	if engine.IsNotFound(err) || engine.IsAuthorization(err) {
		c.JSON(http.StatusNotFound, dto.TransferEnvelope{
			Success: false,
			Error:   "Transfer not found",
			Message: "The requested transfer does not exist or you do not have access to it",
		})
		return
	}
	if engine.IsValidation(err) {
		c.JSON(http.StatusBadRequest, dto.TransferEnvelope{
			Success: false,
			Error:   "Failed to " + action + " transfer",
			Message: err.Error(),
		})
		return
	}
	_ = c.Error(err)
}

// Create godoc
// @Summary      Request a transfer
// @Description  Creates a transfer in REQUESTED status between two locations of the caller's tenant.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTransferRequest true "Transfer data"
// @Success      201  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Router       /v1/transfers [post]
func (h *TransfersHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, tenantID := callerIDs(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		writeTransferError(c, "create", err)
		return
	}
	transferOK(c, http.StatusCreated, resp, "Transfer requested")
}

// Get godoc
// @Summary      Get a transfer
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Transfer UUID"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id} [get]
func (h *TransfersHandler) Get(c *gin.Context) {
	id, tenantID, _, ok := h.pathIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		writeTransferError(c, "get", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "")
}

// List godoc
// @Summary      List transfers
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "Status filter"
// @Param        priority query string false "Priority filter"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Records per page (default 50)"
// @Success      200  {object} dto.TransferListEnvelope
// @Router       /v1/transfers [get]
func (h *TransfersHandler) List(c *gin.Context) {
	var filter dto.TransferFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, dto.TransferListEnvelope{Success: false, Message: err.Error()})
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	_, tenantID := callerIDs(c)
	transfers, total, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.TransferListEnvelope{
		Success: true,
		Data:    transfers,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
}

// Audits godoc
// @Summary      Transition history of a transfer
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Transfer UUID"
// @Success      200  {array} dto.TransferAuditResponse
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/audits [get]
func (h *TransfersHandler) Audits(c *gin.Context) {
	id, tenantID, _, ok := h.pathIDs(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListAudits(c.Request.Context(), tenantID, id)
	if err != nil {
		writeTransferError(c, "audit", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary      Approve a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Transfer UUID"
// @Param        body body dto.TransitionRequest false "Optional reason"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/approve [post]
func (h *TransfersHandler) Approve(c *gin.Context) {
	id, tenantID, userID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	var req dto.TransitionRequest
	_ = c.ShouldBindJSON(&req) // body is optional for approve

	resp, err := h.svc.Approve(c.Request.Context(), tenantID, userID, id, h.input(c, req.Reason))
	if err != nil {
		writeTransferError(c, "approve", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "Transfer approved")
}

// Reject godoc
// @Summary      Reject a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Transfer UUID"
// @Param        body body dto.TransitionRequest true "Rejection reason"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/reject [post]
func (h *TransfersHandler) Reject(c *gin.Context) {
	id, tenantID, userID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reject(c.Request.Context(), tenantID, userID, id, h.input(c, req.Reason))
	if err != nil {
		writeTransferError(c, "reject", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "Transfer rejected")
}

// Ship godoc
// @Summary      Ship a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Transfer UUID"
// @Param        body body dto.ShipTransferRequest true "Shipped quantity"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/ship [post]
func (h *TransfersHandler) Ship(c *gin.Context) {
	id, tenantID, userID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	var req dto.ShipTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	in := h.input(c, "")
	in.QuantityShipped = req.QuantityShipped
	resp, err := h.svc.Ship(c.Request.Context(), tenantID, userID, id, in)
	if err != nil {
		writeTransferError(c, "ship", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "Transfer shipped")
}

// Receive godoc
// @Summary      Receive a transfer
// @Description  Completes a transfer. A variance reason is required when the received quantity is below the shipped quantity.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Transfer UUID"
// @Param        body body dto.ReceiveTransferRequest true "Received quantity"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/receive [post]
func (h *TransfersHandler) Receive(c *gin.Context) {
	id, tenantID, userID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	var req dto.ReceiveTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	in := h.input(c, "")
	in.QuantityReceived = req.QuantityReceived
	in.VarianceReason = req.VarianceReason
	resp, err := h.svc.Receive(c.Request.Context(), tenantID, userID, id, in)
	if err != nil {
		writeTransferError(c, "receive", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "Transfer received")
}

// Cancel godoc
// @Summary      Cancel a transfer
// @Description  Cancels a transfer in REQUESTED or APPROVED status. Shipped or completed transfers cannot be cancelled.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Transfer UUID"
// @Param        body body dto.TransitionRequest true "Cancellation reason"
// @Success      200  {object} dto.TransferEnvelope
// @Failure      400  {object} dto.TransferEnvelope
// @Failure      404  {object} dto.TransferEnvelope
// @Router       /v1/transfers/{id}/cancel [post]
func (h *TransfersHandler) Cancel(c *gin.Context) {
	id, tenantID, userID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), tenantID, userID, id, h.input(c, req.Reason))
	if err != nil {
		writeTransferError(c, "cancel", err)
		return
	}
	transferOK(c, http.StatusOK, resp, "Transfer cancelled successfully")
}

func (h *TransfersHandler) pathIDs(c *gin.Context) (id, tenantID, userID uuid.UUID, ok bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed ID can never match a transfer — same envelope as absent
		c.JSON(http.StatusNotFound, dto.TransferEnvelope{
			Success: false,
			Error:   "Transfer not found",
			Message: "The requested transfer does not exist or you do not have access to it",
		})
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	userID, tenantID = callerIDs(c)
	return id, tenantID, userID, true
}

func (h *TransfersHandler) input(c *gin.Context, reason string) service.TransitionInput {
	return service.TransitionInput{
		Reason:    reason,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
