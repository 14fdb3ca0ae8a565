package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gerow/go-color"
	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/pkg/timezone"
	"github.com/weekgrid/calendar-backend/internal/pkg/validator"
)

type participantReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type eventReq struct {
	CalendarID     int64             `json:"calendar_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Location       string            `json:"location"`
	Color          string            `json:"color"`
	AllDay         bool              `json:"all_day"`
	From           string            `json:"from"`
	To             string            `json:"to"`
	Recurring      bool              `json:"recurring"`
	RecurrenceRule string            `json:"recurrence_rule"`
	Participants   []*participantReq `json:"participants"`
}

// parseEventWindow turns the request's from/to into absolute bounds. Timed
// events send RFC 3339 instants; all-day events send date-only values with an
// inclusive end date, stored as UTC midnights.
func parseEventWindow(req *eventReq) (from, to time.Time, err error) {
	if req.AllDay {
		from, to, err = timezone.AllDayBounds(req.From, req.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to.AddDate(0, 0, 1), nil
	}

	from, err = time.Parse(time.RFC3339, req.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
	}

	to, err = time.Parse(time.RFC3339, req.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
	}

	return from, to, nil
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &eventReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Title != "", "title", "title must be provided")
	v.Check(req.CalendarID > 0, "calendar_id", "calendar_id must be provided")
	v.Check(req.From != "", "from", "from must be provided")
	v.Check(req.To != "", "to", "to must be provided")
	if req.Recurring {
		v.Check(req.RecurrenceRule != "", "recurrence_rule", "recurrence_rule must be provided for recurring events")
	}

	colorRGB, colorErr := color.HTMLToRGB(req.Color)
	v.Check(colorErr == nil, "color", "color must be a valid hex value")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	from, to, err := parseEventWindow(req)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	event, err := a.events.CreateEvent(r.Context(), user.ID, &model.EventCreate{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		From:           from,
		To:             to,
		AllDay:         req.AllDay,
		Color:          colorRGB,
		CalendarID:     req.CalendarID,
		Recurring:      req.Recurring,
		RecurrenceRule: req.RecurrenceRule,
	}, mapToParticipantCreates(req.Participants))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrValidation):
			a.unprocessableResponse(w, r, "event window or recurrence rule is invalid")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("create event: %w", err))
		}
		return
	}

	resp, err := mapToEventResp(event)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	filter, err := parseEventsQuery(r, user)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	page, err := a.events.GetEvents(r.Context(), *filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get events: %w", err))
		return
	}

	resp, err := mapToEventsPageResp(page)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getTodayEventsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	from, to, err := timezone.DayWindow(time.Now(), user.Timezone)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	page, err := a.events.GetEvents(r.Context(), model.EventsFilter{
		UserID: user.ID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get today events: %w", err))
		return
	}

	resp, err := mapToEventsPageResp(page)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getUpcomingEventsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			a.badRequestResponse(w, r, fmt.Errorf("invalid limit %v", v))
			return
		}
	}

	now := time.Now()
	page, err := a.events.GetEvents(r.Context(), model.EventsFilter{
		UserID: user.ID,
		From:   &now,
		Limit:  limit,
	})
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get upcoming events: %w", err))
		return
	}

	resp, err := mapToEventsPageResp(page)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "eventID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	event, err := a.events.GetEvent(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get event: %w", err))
		}
		return
	}

	resp, err := mapToEventResp(event)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "eventID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &eventReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Title != "", "title", "title must be provided")
	v.Check(req.CalendarID > 0, "calendar_id", "calendar_id must be provided")
	v.Check(req.From != "", "from", "from must be provided")
	v.Check(req.To != "", "to", "to must be provided")

	colorRGB, colorErr := color.HTMLToRGB(req.Color)
	v.Check(colorErr == nil, "color", "color must be a valid hex value")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	from, to, err := parseEventWindow(req)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	// Participants absent from the body leave the invitee list untouched; an
	// explicit empty list clears it.
	participants := mapToParticipantCreates(req.Participants)

	if err := a.events.UpdateEvent(r.Context(), userID, id, &model.EventUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		From:           from,
		To:             to,
		AllDay:         req.AllDay,
		Color:          colorRGB,
		CalendarID:     req.CalendarID,
		Recurring:      req.Recurring,
		RecurrenceRule: req.RecurrenceRule,
	}, participants); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrValidation):
			a.unprocessableResponse(w, r, "event window or recurrence rule is invalid")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update event: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "eventID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.events.DeleteEvent(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete event: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) updateParticipantStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "participantID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Status string `json:"status"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.events.UpdateParticipantStatus(r.Context(), userID, id, model.ParticipantStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrPermissionDenied):
			a.forbiddenResponse(w, r, "only the participant or an event editor can change the status")
		case errors.Is(err, model.ErrValidation):
			a.unprocessableResponse(w, r, "status must be pending, accepted, declined or tentative")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update participant status: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// parseEventsQuery reads the window and paging parameters. Bounds accept
// RFC 3339 instants or date-only values resolved in the user's timezone; a
// date-only "to" covers the whole day.
func parseEventsQuery(r *http.Request, user *model.User) (*model.EventsFilter, error) {
	res := &model.EventsFilter{UserID: user.ID}

	if v := r.URL.Query().Get("from"); v != "" {
		from, err := parseWindowBound(v, user.Timezone, false)
		if err != nil {
			return nil, err
		}
		res.From = &from
	}

	if v := r.URL.Query().Get("to"); v != "" {
		to, err := parseWindowBound(v, user.Timezone, true)
		if err != nil {
			return nil, err
		}
		res.To = &to
	}

	if v := r.URL.Query().Get("calendar_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid calendar id %v", v)
		}
		res.CalendarID = &id
	}

	res.SortField = r.URL.Query().Get("sort")
	res.SortDesc = r.URL.Query().Get("desc") == "true"

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid limit %v", v)
		}
		res.Limit = limit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid offset %v", v)
		}
		res.Offset = offset
	}

	return res, nil
}

func parseWindowBound(value, zone string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := timezone.ToAbsolute(value, "00:00", zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %v", value)
	}

	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}

	return t, nil
}

func mapToParticipantCreates(reqs []*participantReq) []*model.ParticipantCreate {
	if reqs == nil {
		return nil
	}

	res := make([]*model.ParticipantCreate, len(reqs))
	for i, p := range reqs {
		res[i] = &model.ParticipantCreate{Email: p.Email, Name: p.Name}
	}

	return res
}
