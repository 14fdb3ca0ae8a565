package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gerow/go-color"
	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/pkg/password"
	"github.com/weekgrid/calendar-backend/internal/pkg/validator"
)

const (
	defaultCalendarName        = "My Calendar"
	defaultCalendarDescription = "Default calendar"
	defaultCalendarColor       = "#4285f4"
)

func (a *Api) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Timezone string `json:"timezone"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.Timezone == "" {
		req.Timezone = a.defaultTimezone
	}

	v := validator.New()
	v.Check(req.Email != "", "email", "email must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "email must be valid")
	v.Check(req.Name != "", "name", "name must be provided")
	v.Check(len(req.Password) >= 6, "password", "password must be at least 6 characters long")
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		v.AddError("timezone", "timezone must be a valid IANA zone name")
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	tx, err := a.db.BeginTx(r.Context(), nil)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}
	defer tx.Rollback(r.Context())

	userCreate := &model.UserCreate{
		Email:    req.Email,
		Name:     req.Name,
		Timezone: req.Timezone,
	}

	id, err := a.users.CreateUser(r.Context(), tx, userCreate, hash)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyExists):
			a.conflictResponse(w, r, "a user with this email already exists")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("create user: %w", err))
		}
		return
	}

	defaultColor, err := color.HTMLToRGB(defaultCalendarColor)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if _, err := a.calendarsCreator.CreateCalendar(r.Context(), tx, &model.CalendarCreate{
		Name:        defaultCalendarName,
		Description: defaultCalendarDescription,
		Color:       defaultColor,
		IsDefault:   true,
		OwnerID:     id,
	}); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create default calendar: %w", err))
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	tokens, err := a.generateTokens(r.Context(), id)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, tokens, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	creds, err := a.users.GetCredentialsByEmail(r.Context(), a.db, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("invalid credentials"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := password.Compare(creds.PasswordHash, req.Password)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		a.unauthorizedResponse(w, r, errors.New("invalid credentials"))
		return
	}

	tokens, err := a.generateTokens(r.Context(), creds.UserID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, tokens, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) signInGoogleHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		AuthCode string `json:"auth_code"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	tokenInfo, err := a.tokenParser.GetInfoGoogle(r.Context(), req.AuthCode)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	user, err := a.users.GetUserByEmail(r.Context(), a.db, tokenInfo.Email)
	if err != nil {
		if !errors.Is(err, model.ErrNoRecord) {
			a.serverErrorResponse(w, r, err)
			return
		}

		tx, err := a.db.BeginTx(r.Context(), nil)
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}
		defer tx.Rollback(r.Context())

		userCreate := &model.UserCreate{
			Email:    tokenInfo.Email,
			Name:     tokenInfo.Name,
			Timezone: a.defaultTimezone,
		}

		// Google accounts have no local password.
		id, err := a.users.CreateUser(r.Context(), tx, userCreate, "")
		if err != nil {
			a.serverErrorResponse(w, r, fmt.Errorf("create user: %w", err))
			return
		}

		defaultColor, err := color.HTMLToRGB(defaultCalendarColor)
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}

		if _, err := a.calendarsCreator.CreateCalendar(r.Context(), tx, &model.CalendarCreate{
			Name:        defaultCalendarName,
			Description: defaultCalendarDescription,
			Color:       defaultColor,
			IsDefault:   true,
			OwnerID:     id,
		}); err != nil {
			a.serverErrorResponse(w, r, fmt.Errorf("create default calendar: %w", err))
			return
		}

		if err := tx.Commit(r.Context()); err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}

		user = &model.User{ID: id, UserCreate: *userCreate}
	}

	tokens, err := a.generateTokens(r.Context(), user.ID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, tokens, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	id, err := a.sessions.Get(r.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	accessToken, err := a.jwts.CreateToken(id)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	newRefreshToken := ""
	for {
		newRefreshToken, err = a.generateRandomString(a.sessionTokenLength)
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}

		if err := a.sessions.Refresh(r.Context(), input.RefreshToken, newRefreshToken); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				continue
			}
			a.serverErrorResponse(w, r, err)
			return
		}

		break
	}

	response := &tokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		RefreshToken string `json:"refresh_token"`
	}{}

	if err := a.readJSON(w, r, input); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.sessions.Delete(r.Context(), input.RefreshToken); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("no such session"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
