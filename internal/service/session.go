package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"printsaarthi/internal/client"
	"printsaarthi/internal/dto"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

// ServiceHealth is a best-effort, passively displayed indicator of remote
// reachability. It never blocks authentication.
type ServiceHealth string

const (
	HealthUnknown   ServiceHealth = "unknown"
	HealthChecking  ServiceHealth = "checking"
	HealthHealthy   ServiceHealth = "healthy"
	HealthUnhealthy ServiceHealth = "unhealthy"
)

// SessionService holds the authenticated identity and credential for the
// lifetime of the process. Created at startup, torn down on logout.
type SessionService interface {
	// Initialize runs the service-health probe and, if a credential is
	// persisted, credential verification. The two run concurrently and
	// both finish before Initialize returns.
	Initialize(ctx context.Context)

	Login(ctx context.Context, email, password string) (*model.User, error)
	Signup(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Logout(ctx context.Context)

	// ForceLogout is wired as the client's 401 hook: the credential is
	// already cleared from storage, only the in-memory identity remains.
	ForceLogout()

	CurrentUser() *model.User
	IsAuthenticated() bool
	Health() ServiceHealth
}

type sessionServiceImpl struct {
	mu     sync.RWMutex
	user   *model.User
	health ServiceHealth

	api    client.APIClient
	store  repository.LocalStore
	logger *logrus.Logger
}

func NewSessionService(api client.APIClient, store repository.LocalStore, logger *logrus.Logger) SessionService {
	return &sessionServiceImpl{
		health: HealthUnknown,
		api:    api,
		store:  store,
		logger: logger,
	}
}

func (s *sessionServiceImpl) Initialize(ctx context.Context) {
	s.setHealth(HealthChecking)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.probeHealth(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.verifyCredential(ctx)
	}()

	wg.Wait()
}

func (s *sessionServiceImpl) probeHealth(ctx context.Context) {
	resp, err := s.api.Health(ctx)
	if err != nil || resp.Database.Status != "healthy" {
		s.setHealth(HealthUnhealthy)
		s.logger.WithError(err).Warn("service health probe failed")
		return
	}

	s.setHealth(HealthHealthy)
	s.logger.WithFields(logrus.Fields{
		"state":      resp.Database.State,
		"readyState": resp.Database.ReadyState,
	}).Info("remote service healthy")
}

// verifyCredential validates a persisted credential from an earlier run.
// Rejection is silent: the stale token is dropped, no error surfaces.
func (s *sessionServiceImpl) verifyCredential(ctx context.Context) {
	token, err := s.store.Get(ctx, repository.KeyToken)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.logger.WithError(err).Error("read persisted credential")
		}
		return
	}

	user, err := s.api.VerifyToken(ctx, token)
	if err != nil {
		s.logger.WithError(err).Info("persisted credential rejected, clearing")
		if err := s.store.Delete(ctx, repository.KeyToken); err != nil {
			s.logger.WithError(err).Error("clear persisted credential")
		}
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.logger.WithField("user", user.Email).Info("session restored")
}

func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	data, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, data)
}

func (s *sessionServiceImpl) Signup(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	data, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, data)
}

func (s *sessionServiceImpl) establish(ctx context.Context, data *dto.AuthData) (*model.User, error) {
	if err := s.store.Set(ctx, repository.KeyToken, data.Token); err != nil {
		s.logger.WithError(err).Error("persist credential")
	}

	user := data.User
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.logger.WithField("user", user.Email).Info("session established")
	return &user, nil
}

// Logout clears identity and credential. Synchronous, no remote call.
func (s *sessionServiceImpl) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, repository.KeyToken); err != nil {
		s.logger.WithError(err).Error("clear persisted credential")
	}

	s.logger.Info("logged out")
}

func (s *sessionServiceImpl) ForceLogout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.logger.Info("session ended, login required")
}

func (s *sessionServiceImpl) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *sessionServiceImpl) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func (s *sessionServiceImpl) Health() ServiceHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

func (s *sessionServiceImpl) setHealth(h ServiceHealth) {
	s.mu.Lock()
	s.health = h
	s.mu.Unlock()
}
