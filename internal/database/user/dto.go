package user

import (
	"github.com/weekgrid/calendar-backend/internal/model"
)

type userDTO struct {
	ID       int64
	Email    string
	Name     string
	Timezone string
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID: dto.ID,
		UserCreate: model.UserCreate{
			Email:    dto.Email,
			Name:     dto.Name,
			Timezone: dto.Timezone,
		},
	}
}
