package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/model"
	"github.com/weekgrid/calendar-backend/internal/pkg/oauth"
	"go.uber.org/zap"
)

type Api struct {
	handler    http.Handler
	logger     *zap.SugaredLogger
	randSource io.Reader

	jwts        jwtManager
	tokenParser tokenParser
	sessions    sessionsRepository

	db               database.PGX
	users            userRepository
	calendarsCreator calendarsCreator
	calendars        calendarsService
	events           eventsService

	sessionTokenLength int
	defaultTimezone    string
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type tokenParser interface {
	GetInfoGoogle(ctx context.Context, authCode string) (*oauth.GoogleInfo, error)
}

type sessionsRepository interface {
	Add(ctx context.Context, session string, id int64) error
	Get(ctx context.Context, session string) (int64, error)
	Refresh(ctx context.Context, old, new string) error
	Delete(ctx context.Context, session string) error
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
	GetCredentialsByEmail(ctx context.Context, q database.Queryable, email string) (*model.Credentials, error)
	GetCredentialsByID(ctx context.Context, q database.Queryable, id int64) (*model.Credentials, error)
	UpdateProfile(ctx context.Context, q database.Queryable, id int64, info *model.UserUpdate) error
	UpdatePassword(ctx context.Context, q database.Queryable, id int64, passwordHash string) error
}

// calendarsCreator is the slice of the calendars repository registration
// needs to set up the default calendar inside the signup transaction.
type calendarsCreator interface {
	CreateCalendar(ctx context.Context, q database.Queryable, calendar *model.CalendarCreate) (int64, error)
}

type calendarsService interface {
	CreateCalendar(ctx context.Context, info *model.CalendarCreate) (*model.Calendar, error)
	GetCalendars(ctx context.Context, userID int64, includeShared bool) ([]*model.Calendar, error)
	GetCalendar(ctx context.Context, userID, id int64) (*model.Calendar, error)
	UpdateCalendar(ctx context.Context, userID, id int64, info *model.CalendarUpdate) error
	DeleteCalendar(ctx context.Context, userID, id int64) error
	ShareCalendar(ctx context.Context, userID, calendarID int64, email string, role model.Role) (*model.CalendarShare, error)
	GetShares(ctx context.Context, userID, calendarID int64) ([]*model.CalendarShare, error)
	UpdateShare(ctx context.Context, userID, shareID int64, role model.Role) error
	RemoveShare(ctx context.Context, userID, shareID int64) error
}

type eventsService interface {
	CreateEvent(ctx context.Context, userID int64, info *model.EventCreate, participants []*model.ParticipantCreate) (*model.Event, error)
	GetEvent(ctx context.Context, userID, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, filter model.EventsFilter) (*model.EventsPage, error)
	UpdateEvent(ctx context.Context, userID, id int64, info *model.EventUpdate, participants []*model.ParticipantCreate) error
	DeleteEvent(ctx context.Context, userID, id int64) error
	UpdateParticipantStatus(ctx context.Context, userID, participantID int64, status model.ParticipantStatus) error
}

func NewApi(
	logger *zap.SugaredLogger,
	randSource io.Reader,
	jwts jwtManager,
	tokenParser tokenParser,
	sessions sessionsRepository,
	db database.PGX,
	users userRepository,
	calendarsCreator calendarsCreator,
	calendars calendarsService,
	events eventsService,
	sessionTokenLength int,
	defaultTimezone string,
) (*Api, error) {
	a := &Api{
		logger:             logger,
		randSource:         randSource,
		jwts:               jwts,
		tokenParser:        tokenParser,
		sessions:           sessions,
		db:                 db,
		users:              users,
		calendarsCreator:   calendarsCreator,
		calendars:          calendars,
		events:             events,
		sessionTokenLength: sessionTokenLength,
		defaultTimezone:    defaultTimezone,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.registerUserHandler)
		r.Post("/login", a.loginUserHandler)
		r.Post("/signin/google", a.signInGoogleHandler)
		r.Post("/refresh", a.refreshTokenHandler)
		r.Post("/logout", a.logoutUserHandler)
	})

	r.With(a.auth).Route("/", func(r chi.Router) {
		r.With(a.userCtx).Route("/user", func(r chi.Router) {
			r.Get("/", a.getUserHandler)
			r.Patch("/", a.updateUserHandler)
			r.Put("/password", a.updatePasswordHandler)
		})

		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", a.getCalendarsHandler)
			r.Post("/", a.createCalendarHandler)

			r.Route("/{calendarID}", func(r chi.Router) {
				r.Get("/", a.getCalendarHandler)
				r.Patch("/", a.updateCalendarHandler)
				r.Delete("/", a.deleteCalendarHandler)

				r.Get("/shares", a.getSharesHandler)
				r.Post("/shares", a.shareCalendarHandler)
			})

			r.Route("/shares/{shareID}", func(r chi.Router) {
				r.Patch("/", a.updateShareHandler)
				r.Delete("/", a.removeShareHandler)
			})
		})

		r.With(a.userCtx).Route("/events", func(r chi.Router) {
			r.Get("/", a.getEventsHandler)
			r.Post("/", a.createEventHandler)
			r.Get("/today", a.getTodayEventsHandler)
			r.Get("/upcoming", a.getUpcomingEventsHandler)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", a.getEventHandler)
				r.Patch("/", a.updateEventHandler)
				r.Delete("/", a.deleteEventHandler)
			})

			r.Patch("/participants/{participantID}", a.updateParticipantStatusHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
