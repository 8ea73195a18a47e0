package dto

type CreateLocationRequest struct {
	Name    string  `json:"name" validate:"required"`
	Type    string  `json:"type" validate:"required,oneof=RESTAURANT COMMISSARY POP_UP WAREHOUSE"`
	Address *string `json:"address,omitempty"`
}

type UpdateLocationRequest struct {
	Name    string  `json:"name,omitempty"`
	Type    string  `json:"type,omitempty" validate:"omitempty,oneof=RESTAURANT COMMISSARY POP_UP WAREHOUSE"`
	Address *string `json:"address,omitempty"`
}

type LocationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Address   *string `json:"address,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}
