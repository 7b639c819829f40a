// Package attendance implements the student and faculty actions on top of a
// record store.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"lab-attendance-backend/internal/metrics"
	"lab-attendance-backend/internal/model"
	"lab-attendance-backend/internal/parse"
	"lab-attendance-backend/internal/store"
	"lab-attendance-backend/internal/view"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MsgMissingFields is shown when any login field is left empty.
const MsgMissingFields = "Please fill all fields"

// LoginInput is the student login form.
type LoginInput struct {
	RegisterNumber string `json:"register_number" form:"register_number" validate:"required,max=64"`
	Programme      string `json:"programme" form:"programme" validate:"required"`
	Year           string `json:"year" form:"year" validate:"required"`
	Purpose        string `json:"purpose" form:"purpose" validate:"required"`
}

// LogoutInput is the student logout form.
type LogoutInput struct {
	RegisterNumber string `json:"register_number" form:"register_number" validate:"required,max=64"`
}

// View is the filtered faculty listing.
type View struct {
	Records []model.AttendanceRecord
	view.Stats
}

type Service struct {
	store    store.Store
	clock    Clock
	log      *zap.Logger
	validate *validator.Validate
}

func NewService(s store.Store, clock Clock, log *zap.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: s, clock: clock, log: log, validate: v}
}

// now truncates to the one-second resolution records are kept at.
func (s *Service) now() time.Time {
	return s.clock().Truncate(time.Second)
}

// Login records a new open visit.
func (s *Service) Login(ctx context.Context, in LoginInput) (model.AttendanceRecord, error) {
	in.RegisterNumber = strings.TrimSpace(in.RegisterNumber)
	in.Programme = strings.TrimSpace(in.Programme)
	in.Year = strings.TrimSpace(in.Year)
	in.Purpose = strings.TrimSpace(in.Purpose)
	if err := s.check(in); err != nil {
		return model.AttendanceRecord{}, err
	}

	programme, err := parse.Programme(in.Programme)
	if err != nil {
		return model.AttendanceRecord{}, &ValidationError{Field: "programme", Message: err.Error()}
	}
	year, err := parse.Year(in.Year)
	if err != nil {
		return model.AttendanceRecord{}, &ValidationError{Field: "year", Message: err.Error()}
	}
	purpose, err := parse.Purpose(in.Purpose)
	if err != nil {
		return model.AttendanceRecord{}, &ValidationError{Field: "purpose", Message: err.Error()}
	}

	rec := model.AttendanceRecord{
		RegisterNumber: in.RegisterNumber,
		Programme:      programme,
		Year:           year,
		Purpose:        purpose,
		LoginTime:      s.now(),
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Error("failed to record login", zap.String("register_number", rec.RegisterNumber), zap.Error(err))
		return model.AttendanceRecord{}, fmt.Errorf("record login: %w", err)
	}

	metrics.StudentLogins.Inc()
	s.log.Info("student login",
		zap.String("register_number", rec.RegisterNumber),
		zap.String("programme", string(rec.Programme)),
		zap.String("purpose", string(rec.Purpose)))
	return rec, nil
}

// Logout closes the student's most recent open visit and returns the
// logout time written.
func (s *Service) Logout(ctx context.Context, registerNumber string) (time.Time, error) {
	in := LogoutInput{RegisterNumber: strings.TrimSpace(registerNumber)}
	if err := s.check(in); err != nil {
		metrics.StudentLogouts.WithLabelValues(metrics.ResultRejected).Inc()
		return time.Time{}, err
	}

	now := s.now()
	err := s.store.ResolveLogout(ctx, in.RegisterNumber, now)
	switch {
	case err == nil:
		metrics.StudentLogouts.WithLabelValues(metrics.ResultOK).Inc()
		s.log.Info("student logout", zap.String("register_number", in.RegisterNumber))
		return now, nil
	case errors.Is(err, store.ErrNotFound):
		metrics.StudentLogouts.WithLabelValues(metrics.ResultNotFound).Inc()
		s.log.Debug("logout without active login", zap.String("register_number", in.RegisterNumber))
		return time.Time{}, err
	default:
		metrics.StudentLogouts.WithLabelValues(metrics.ResultError).Inc()
		s.log.Error("failed to record logout", zap.String("register_number", in.RegisterNumber), zap.Error(err))
		return time.Time{}, fmt.Errorf("record logout: %w", err)
	}
}

// Records loads every visit and narrows it to c.
func (s *Service) Records(ctx context.Context, c view.Criteria) (View, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load records: %w", err)
	}
	filtered := view.Filter(all, c)
	return View{Records: filtered, Stats: view.Summarize(filtered)}, nil
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return &ValidationError{Field: fe.Field(), Message: MsgMissingFields}
		}
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ValidationError{Message: err.Error()}
}
