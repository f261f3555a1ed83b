package dto

import "time"

type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=160"`
	TIN      string `json:"tin" validate:"required,len=10,numeric"`
	BranchID string `json:"branch_id" validate:"omitempty,max=20"`
	DeviceNo string `json:"device_no" validate:"omitempty,max=40"`
	Address  string `json:"address" validate:"omitempty,max=240"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=160"`
	BranchID *string `json:"branch_id" validate:"omitempty,max=20"`
	DeviceNo *string `json:"device_no" validate:"omitempty,max=40"`
	Address  *string `json:"address" validate:"omitempty,max=240"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TIN       string    `json:"tin"`
	BranchID  string    `json:"branch_id,omitempty"`
	DeviceNo  string    `json:"device_no,omitempty"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
