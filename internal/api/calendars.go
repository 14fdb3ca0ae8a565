package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gerow/go-color"
	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/pkg/validator"
)

func (a *Api) createCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	req := &struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		IsPublic    bool   `json:"is_public"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Name != "", "name", "name must be provided")

	colorRGB, colorErr := color.HTMLToRGB(req.Color)
	v.Check(colorErr == nil, "color", "color must be a valid hex value")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	calendar, err := a.calendars.CreateCalendar(r.Context(), &model.CalendarCreate{
		Name:        req.Name,
		Description: req.Description,
		Color:       colorRGB,
		IsPublic:    req.IsPublic,
		OwnerID:     userID,
	})
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create calendar: %w", err))
		return
	}

	resp, err := mapToCalendarResp(calendar)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getCalendarsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	// Shared calendars are included unless explicitly excluded.
	includeShared := r.URL.Query().Get("shared") != "false"

	calendars, err := a.calendars.GetCalendars(r.Context(), userID, includeShared)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get calendars: %w", err))
		return
	}

	resp, err := mapSlice(calendars, mapToCalendarResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "calendarID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	calendar, err := a.calendars.GetCalendar(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get calendar: %w", err))
		}
		return
	}

	resp, err := mapToCalendarResp(calendar)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "calendarID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		IsPublic    bool   `json:"is_public"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Name != "", "name", "name must be provided")

	colorRGB, colorErr := color.HTMLToRGB(req.Color)
	v.Check(colorErr == nil, "color", "color must be a valid hex value")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.calendars.UpdateCalendar(r.Context(), userID, id, &model.CalendarUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       colorRGB,
		IsPublic:    req.IsPublic,
	}); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update calendar: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "calendarID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.calendars.DeleteCalendar(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrDefaultCalendar):
			a.conflictResponse(w, r, "the default calendar cannot be deleted")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete calendar: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) shareCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "calendarID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Email != "", "email", "email must be provided")
	v.Check(validator.In(req.Role, string(model.RoleViewer), string(model.RoleEditor)), "role", "role must be viewer or editor")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	share, err := a.calendars.ShareCalendar(r.Context(), userID, id, req.Email, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrAlreadyExists):
			a.conflictResponse(w, r, "the calendar is already shared with this user")
		case errors.Is(err, model.ErrValidation):
			a.unprocessableResponse(w, r, "the calendar cannot be shared with its owner")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("share calendar: %w", err))
		}
		return
	}

	resp, err := mapToShareResp(share)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getSharesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "calendarID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	shares, err := a.calendars.GetShares(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get shares: %w", err))
		}
		return
	}

	resp, err := mapSlice(shares, mapToShareResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateShareHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "shareID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Role string `json:"role"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(validator.In(req.Role, string(model.RoleViewer), string(model.RoleEditor)), "role", "role must be viewer or editor")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.calendars.UpdateShare(r.Context(), userID, id, model.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrPermissionDenied):
			a.forbiddenResponse(w, r, "only the calendar owner can change shares")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update share: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) removeShareHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.contextUserID(r)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	id, err := a.readIDParam(r, "shareID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.calendars.RemoveShare(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrPermissionDenied):
			a.forbiddenResponse(w, r, "only the calendar owner can change shares")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("remove share: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
