package service

import (
	"context"
	"log/slog"

	"github.com/moralreport/moralreport/internal/metrics"
	"github.com/moralreport/moralreport/internal/model"
)

// RefreshResult carries a newly issued access token.
type RefreshResult struct {
	AccessToken string
}

// RefreshService exchanges a refresh token for a new access token.
// Refresh tokens are not rotated; they stay valid until they expire.
type RefreshService struct {
	verifier TokenVerifier
	issuer   TokenIssuer
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(verifier TokenVerifier, issuer TokenIssuer, recorder metrics.Recorder, logger *slog.Logger) *RefreshService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RefreshService{
		verifier: verifier,
		issuer:   issuer,
		metrics:  recorder,
		logger:   loggerOrDefault(logger),
	}
}

// Refresh verifies a refresh token and issues an access token carrying the
// same identity. Any verification failure yields ErrInvalidToken.
func (s *RefreshService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		verr := newValidationError()
		verr.Add("refresh_token", msgRequired)
		s.metrics.IncRefresh(metrics.OutcomeRejected)
		return nil, verr
	}

	claims, err := s.verifier.Verify(refreshToken, model.TokenTypeRefresh)
	if err != nil {
		s.metrics.IncRefresh(metrics.OutcomeRejected)
		s.logger.InfoContext(ctx, "refresh rejected", slog.String("reason", err.Error()))
		return nil, ErrInvalidToken
	}

	access, err := s.issuer.IssueAccess(claims.Identity())
	if err != nil {
		s.metrics.IncRefresh(metrics.OutcomeError)
		s.logger.Error("issue access token",
			slog.String("user_id", claims.Subject),
			slog.String("error", err.Error()),
		)
		return nil, ErrInternal
	}

	s.metrics.IncRefresh(metrics.OutcomeSuccess)

	return &RefreshResult{AccessToken: access.Value}, nil
}
