package dto

import "time"

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=160"`
	TIN     string `json:"tin" validate:"omitempty,len=10,numeric"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=240"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=160"`
	TIN     *string `json:"tin" validate:"omitempty,len=10,numeric"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=240"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TIN       string    `json:"tin,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
