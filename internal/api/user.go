package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/pkg/password"
	"github.com/weekgrid/calendar-backend/internal/pkg/validator"
)

var errCantRetrieveUser = errors.New("can't retrieve user from context")

func (a *Api) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	resp, err := mapToUserResp(user)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Name != "", "name", "name must be provided")
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		v.AddError("timezone", "timezone must be a valid IANA zone name")
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.users.UpdateProfile(r.Context(), a.db, user.ID, &model.UserUpdate{
		Name:     req.Name,
		Timezone: req.Timezone,
	}); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	user.Name = req.Name
	user.Timezone = req.Timezone

	resp, err := mapToUserResp(user)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	req := &struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.NewPassword) >= 6, "new_password", "password must be at least 6 characters long")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	creds, err := a.users.GetCredentialsByID(r.Context(), a.db, user.ID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	match, err := password.Compare(creds.PasswordHash, req.OldPassword)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		a.unauthorizedResponse(w, r, errors.New("invalid credentials"))
		return
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.users.UpdatePassword(r.Context(), a.db, user.ID, hash); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
