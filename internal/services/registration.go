package services

import (
	"context"
	"time"

	"github.com/pushp314/devconnect-contest-gateway/internal/models"
	apperrors "github.com/pushp314/devconnect-contest-gateway/pkg/errors"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

// RegistrationResult is the success outcome of a registration attempt.
// AlreadyRegistered marks the idempotent case: repeating the call for a
// registered user reports success instead of a duplicate-registration error.
type RegistrationResult struct {
	Message           string `json:"message"`
	AlreadyRegistered bool   `json:"alreadyRegistered"`
}

// DecideRegistration is the pure eligibility gate. Registration is allowed
// only while the contest is Upcoming and the user is authenticated; an
// existing registration is allowed through as an idempotent success.
func DecideRegistration(status models.ContestStatus, authenticated, alreadyRegistered bool) error {
	if !authenticated {
		return apperrors.AuthenticationRequired("Please log in to register for this contest")
	}
	if alreadyRegistered {
		return nil
	}
	if status != models.ContestStatusUpcoming {
		return apperrors.ContestNotJoinable("Registration closed: the contest has already started or ended")
	}
	return nil
}

// RegistrationService gates and performs contest registrations against the
// upstream judge.
type RegistrationService struct {
	upstream *UpstreamClient
}

func NewRegistrationService(upstream *UpstreamClient) *RegistrationService {
	return &RegistrationService{upstream: upstream}
}

// Register applies the eligibility gate to a fetched contest and, when
// allowed, performs the idempotent upstream call. Already-registered users
// short-circuit to success without a duplicate upstream write. The view must
// re-fetch the contest after success rather than trust any in-flight data.
func (s *RegistrationService) Register(ctx context.Context, token string, detail *ContestDetail, now time.Time) (*RegistrationResult, error) {
	authenticated := token != ""
	if !authenticated {
		return nil, apperrors.AuthenticationRequired("Please log in to register for this contest")
	}

	status, err := ClassifyStatus(detail.Contest.StartTime, detail.Contest.DurationMinutes, now)
	if err != nil {
		return nil, err
	}

	if err := DecideRegistration(status, authenticated, detail.IsRegistered); err != nil {
		return nil, err
	}

	if detail.IsRegistered {
		return &RegistrationResult{
			Message:           "You are already registered for this contest",
			AlreadyRegistered: true,
		}, nil
	}

	message, err := s.upstream.Register(ctx, token, detail.Contest.ID)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("contest_id", detail.Contest.ID).Msg("Registration confirmed upstream")
	return &RegistrationResult{Message: message}, nil
}
