package events

import (
	"fmt"
	"time"

	"github.com/gerow/go-color"
	"github.com/weekgrid/calendar-backend/internal/model"
)

type eventDTO struct {
	ID              int64
	Title           string
	Description     string
	Location        string
	StartTime       time.Time
	EndTime         time.Time
	AllDay          bool
	Color           string
	CalendarID      int64
	OwnerID         int64
	Recurring       bool
	RecurrenceRule  string
	ParentEventID   *int64
	OriginalEventID *int64
}

func mapToEvent(dto *eventDTO) (*model.Event, error) {
	colorRGB, err := color.HTMLToRGB(dto.Color)
	if err != nil {
		return nil, fmt.Errorf("map color from %v", dto.Color)
	}

	return &model.Event{
		ID:              dto.ID,
		ParentEventID:   dto.ParentEventID,
		OriginalEventID: dto.OriginalEventID,
		EventCreate: model.EventCreate{
			Title:          dto.Title,
			Description:    dto.Description,
			Location:       dto.Location,
			From:           dto.StartTime,
			To:             dto.EndTime,
			AllDay:         dto.AllDay,
			Color:          colorRGB,
			CalendarID:     dto.CalendarID,
			OwnerID:        dto.OwnerID,
			Recurring:      dto.Recurring,
			RecurrenceRule: dto.RecurrenceRule,
		},
	}, nil
}

type participantDTO struct {
	ID      int64
	EventID int64
	UserID  *int64
	Email   string
	Name    string
	Status  string
}

func mapToParticipant(dto *participantDTO) *model.Participant {
	return &model.Participant{
		ID:      dto.ID,
		EventID: dto.EventID,
		UserID:  dto.UserID,
		Email:   dto.Email,
		Name:    dto.Name,
		Status:  model.ParticipantStatus(dto.Status),
	}
}
