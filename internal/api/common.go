package api

import (
	"time"

	"github.com/weekgrid/calendar-backend/internal/model"
)

type userResp struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

func mapToUserResp(user *model.User) (*userResp, error) {
	return &userResp{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Timezone: user.Timezone,
	}, nil
}

type calendarResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	IsDefault   bool   `json:"is_default"`
	IsPublic    bool   `json:"is_public"`
	OwnerID     int64  `json:"owner_id"`
}

func mapToCalendarResp(calendar *model.Calendar) (*calendarResp, error) {
	return &calendarResp{
		ID:          calendar.ID,
		Name:        calendar.Name,
		Description: calendar.Description,
		Color:       "#" + calendar.Color.ToHTML(),
		IsDefault:   calendar.IsDefault,
		IsPublic:    calendar.IsPublic,
		OwnerID:     calendar.OwnerID,
	}, nil
}

type shareResp struct {
	ID         int64  `json:"id"`
	CalendarID int64  `json:"calendar_id"`
	UserID     int64  `json:"user_id"`
	Role       string `json:"role"`
}

func mapToShareResp(share *model.CalendarShare) (*shareResp, error) {
	return &shareResp{
		ID:         share.ID,
		CalendarID: share.CalendarID,
		UserID:     share.UserID,
		Role:       string(share.Role),
	}, nil
}

type participantResp struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

func mapToParticipantResp(p *model.Participant) (*participantResp, error) {
	return &participantResp{
		ID:     p.ID,
		UserID: p.UserID,
		Email:  p.Email,
		Name:   p.Name,
		Status: string(p.Status),
	}, nil
}

type eventResp struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Location        string             `json:"location,omitempty"`
	From            time.Time          `json:"from"`
	To              time.Time          `json:"to"`
	AllDay          bool               `json:"all_day"`
	Color           string             `json:"color"`
	CalendarID      int64              `json:"calendar_id"`
	OwnerID         int64              `json:"owner_id"`
	Recurring       bool               `json:"recurring"`
	RecurrenceRule  string             `json:"recurrence_rule,omitempty"`
	ParentEventID   *int64             `json:"parent_event_id,omitempty"`
	OriginalEventID *int64             `json:"original_event_id,omitempty"`
	Participants    []*participantResp `json:"participants,omitempty"`
}

func mapToEventResp(event *model.Event) (*eventResp, error) {
	participants, err := mapSlice(event.Participants, mapToParticipantResp)
	if err != nil {
		return nil, err
	}

	return &eventResp{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Location:        event.Location,
		From:            event.From,
		To:              event.To,
		AllDay:          event.AllDay,
		Color:           "#" + event.Color.ToHTML(),
		CalendarID:      event.CalendarID,
		OwnerID:         event.OwnerID,
		Recurring:       event.Recurring,
		RecurrenceRule:  event.RecurrenceRule,
		ParentEventID:   event.ParentEventID,
		OriginalEventID: event.OriginalEventID,
		Participants:    participants,
	}, nil
}

type eventsPageResp struct {
	Events  []*eventResp `json:"events"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasMore bool         `json:"has_more"`
}

func mapToEventsPageResp(page *model.EventsPage) (*eventsPageResp, error) {
	events, err := mapSlice(page.Events, mapToEventResp)
	if err != nil {
		return nil, err
	}

	return &eventsPageResp{
		Events:  events,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore(),
	}, nil
}
