package dto

import (
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type CompleteReservationResponse struct {
	Message string       `json:"message"`
	Sale    *models.Sale `json:"sale"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
