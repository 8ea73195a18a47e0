package dto

type CreateTransferRequest struct {
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id" validate:"required,uuid"`
	ProductID      string `json:"product_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Priority       string `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Notes          string `json:"notes,omitempty"`
}

// TransitionRequest covers approve, reject and cancel. Reason is required for
// reject and cancel, optional for approve.
type TransitionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ShipTransferRequest struct {
	QuantityShipped int `json:"quantity_shipped" validate:"required,gt=0"`
}

type ReceiveTransferRequest struct {
	QuantityReceived int    `json:"quantity_received" validate:"required,gt=0"`
	VarianceReason   string `json:"variance_reason,omitempty"`
}

type TransferResponse struct {
	ID                 string  `json:"id"`
	FromLocationID     string  `json:"from_location_id"`
	ToLocationID       string  `json:"to_location_id"`
	ProductID          string  `json:"product_id"`
	Quantity           int     `json:"quantity"`
	QuantityShipped    *int    `json:"quantity_shipped,omitempty"`
	QuantityReceived   *int    `json:"quantity_received,omitempty"`
	Status             string  `json:"status"`
	Priority           string  `json:"priority"`
	RequestedBy        string  `json:"requested_by"`
	RequestedAt        string  `json:"requested_at"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	RejectedBy         *string `json:"rejected_by,omitempty"`
	RejectedAt         *string `json:"rejected_at,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	ShippedBy          *string `json:"shipped_by,omitempty"`
	ShippedAt          *string `json:"shipped_at,omitempty"`
	ReceivedBy         *string `json:"received_by,omitempty"`
	ReceivedAt         *string `json:"received_at,omitempty"`
	CancelledBy        *string `json:"cancelled_by,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	VarianceReason     *string `json:"variance_reason,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// TransferEnvelope is the wire format for all transfer endpoints.
type TransferEnvelope struct {
	Success bool              `json:"success"`
	Data    *TransferResponse `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
}

type TransferListEnvelope struct {
	Success bool               `json:"success"`
	Data    []TransferResponse `json:"data"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Message string             `json:"message,omitempty"`
}

type TransferFilter struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type TransferAuditResponse struct {
	ID         string `json:"id"`
	TransferID string `json:"transfer_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    string `json:"actor_id"`
	Reason     string `json:"reason,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
