package calendar

import (
	"fmt"

	"github.com/gerow/go-color"
	"github.com/weekgrid/calendar-backend/internal/model"
)

type calendarDTO struct {
	ID          int64
	Name        string
	Description string
	Color       string
	IsDefault   bool
	IsPublic    bool
	OwnerID     int64
}

func mapToCalendar(dto *calendarDTO) (*model.Calendar, error) {
	colorRGB, err := color.HTMLToRGB(dto.Color)
	if err != nil {
		return nil, fmt.Errorf("map color from %v", dto.Color)
	}

	return &model.Calendar{
		ID: dto.ID,
		CalendarCreate: model.CalendarCreate{
			Name:        dto.Name,
			Description: dto.Description,
			Color:       colorRGB,
			IsDefault:   dto.IsDefault,
			IsPublic:    dto.IsPublic,
			OwnerID:     dto.OwnerID,
		},
	}, nil
}

type shareDTO struct {
	ID         int64
	CalendarID int64
	UserID     int64
	Role       string
}

func mapToShare(dto *shareDTO) *model.CalendarShare {
	return &model.CalendarShare{
		ID:         dto.ID,
		CalendarID: dto.CalendarID,
		UserID:     dto.UserID,
		Role:       model.Role(dto.Role),
	}
}
