// Package service enforces the rules the store deliberately leaves out:
// input validation, stock checks, role and branch permissions. Handlers talk
// to this layer only.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/prefs"
	"dukapos/backend/internal/reports"
	"dukapos/backend/internal/store"
)

var (
	ErrForbidden        = errors.New("admin role required")
	ErrBranchNotAllowed = errors.New("staff are limited to their home branch")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	store           *store.Store
	themes          prefs.ThemeStore
	log             *logrus.Logger
	defaultBranchID string
	now             func() time.Time
}

func New(st *store.Store, themes prefs.ThemeStore, log *logrus.Logger, defaultBranchID string) *Service {
	if themes == nil {
		themes = prefs.NewMemoryThemeStore()
	}
	if log == nil {
		log = logrus.New()
	}
	if defaultBranchID == "" {
		defaultBranchID = "1"
	}
	return &Service{
		store:           st,
		themes:          themes,
		log:             log,
		defaultBranchID: defaultBranchID,
		// UTC to match the store's timestamps, so day windows never split.
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Actor{}, ErrForbidden
	}
	return actor, nil
}

// resolveBranch picks the branch a request operates on: an explicit id wins,
// then the store's current branch, then the configured default.
func (s *Service) resolveBranch(requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	if current := s.store.CurrentBranch(); current != "" {
		return current
	}
	return s.defaultBranchID
}

// --- session ---

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return domain.User{}, store.ErrInvalidInput
	}

	user, err := s.store.Login(email)
	if err != nil {
		return domain.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
		"branch":  user.BranchID,
	}).Info("user logged in")
	return user, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.store.Logout()
}

// --- branches ---

func (s *Service) ListBranches(ctx context.Context) []domain.Branch {
	return s.store.Branches()
}

func (s *Service) CreateBranch(ctx context.Context, req domain.BranchCreateRequest) (domain.Branch, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Branch{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		return domain.Branch{}, store.ErrInvalidInput
	}

	branch := s.store.AddBranch(domain.Branch{Name: req.Name, Location: req.Location})
	s.log.WithField("branch_id", branch.ID).Info("branch created")
	return branch, nil
}

func (s *Service) CurrentBranch(ctx context.Context) (domain.Branch, error) {
	id := s.store.CurrentBranch()
	if id == "" {
		id = s.defaultBranchID
	}
	return s.store.BranchByID(id)
}

// SwitchBranch changes the working branch. Admins move freely; staff can only
// select their own home branch.
func (s *Service) SwitchBranch(ctx context.Context, branchID string) (domain.Branch, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return domain.Branch{}, store.ErrInvalidInput
	}

	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Branch{}, ErrForbidden
	}
	if actor.Role != domain.RoleAdmin && branchID != actor.BranchID {
		return domain.Branch{}, ErrBranchNotAllowed
	}

	branch, err := s.store.BranchByID(branchID)
	if err != nil {
		return domain.Branch{}, err
	}
	s.store.SetCurrentBranch(branchID)
	return branch, nil
}

// --- theme ---

func (s *Service) Theme(ctx context.Context) domain.ThemeResponse {
	resp := domain.ThemeResponse{
		Theme:     prefs.DefaultTheme,
		Persisted: s.themes.Persistent(),
		Available: prefs.Themes,
	}

	saved, found, err := s.themes.Get(ctx)
	if err != nil {
		s.log.WithError(err).Warn("theme lookup failed, using default")
		return resp
	}
	if found && prefs.ValidTheme(saved) {
		resp.Theme = saved
	}
	return resp
}

func (s *Service) SetTheme(ctx context.Context, req domain.ThemeUpdateRequest) (domain.ThemeResponse, error) {
	if !prefs.ValidTheme(req.Theme) {
		return domain.ThemeResponse{}, fmt.Errorf("%w: unknown theme %q", store.ErrInvalidInput, req.Theme)
	}
	if err := s.themes.Set(ctx, req.Theme); err != nil {
		return domain.ThemeResponse{}, err
	}
	return domain.ThemeResponse{
		Theme:     req.Theme,
		Persisted: s.themes.Persistent(),
		Available: prefs.Themes,
	}, nil
}

// --- dashboard ---

func (s *Service) Dashboard(ctx context.Context, branchID string) domain.DashboardReport {
	branch := s.resolveBranch(branchID)
	return reports.Dashboard(s.store.Products(), s.store.Sales(), branch, s.now())
}
