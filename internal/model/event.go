package model

import (
	"time"

	"github.com/gerow/go-color"
)

type EventCreate struct {
	Title          string
	Description    string
	Location       string
	From           time.Time
	To             time.Time
	AllDay         bool
	Color          color.RGB
	CalendarID     int64
	OwnerID        int64
	Recurring      bool
	RecurrenceRule string
}

// Event is a single row. A recurring event is the series head; rows generated
// from it are independent non-recurring events linked back via ParentEventID.
type Event struct {
	ID              int64
	ParentEventID   *int64
	OriginalEventID *int64
	Participants    []*Participant
	EventCreate
}

type EventUpdate struct {
	Title          string
	Description    string
	Location       string
	From           time.Time
	To             time.Time
	AllDay         bool
	Color          color.RGB
	CalendarID     int64
	Recurring      bool
	RecurrenceRule string
}

type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "pending"
	ParticipantAccepted  ParticipantStatus = "accepted"
	ParticipantDeclined  ParticipantStatus = "declined"
	ParticipantTentative ParticipantStatus = "tentative"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantPending, ParticipantAccepted, ParticipantDeclined, ParticipantTentative:
		return true
	}
	return false
}

type ParticipantCreate struct {
	Email string
	Name  string
}

// Participant is an invitee on a specific event. UserID is nil when the
// invitee is not a registered user.
type Participant struct {
	ID      int64
	EventID int64
	UserID  *int64
	Email   string
	Name    string
	Status  ParticipantStatus
}

// EventsFilter selects events visible to UserID that overlap the window:
// start_time <= To and end_time >= From, either bound optional.
type EventsFilter struct {
	UserID     int64
	From       *time.Time
	To         *time.Time
	CalendarID *int64
	SortField  string
	SortDesc   bool
	Limit      int
	Offset     int
}

type EventsPage struct {
	Events []*Event
	Total  int
	Limit  int
	Offset int
}

func (p *EventsPage) HasMore() bool {
	return p.Offset+len(p.Events) < p.Total
}
