package service

import (
	"context"
	"fmt"
	"strings"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
)

func validRole(r domain.Role) bool {
	return r == domain.RoleAdmin || r == domain.RoleStaff
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.store.Users(), nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.User{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.BranchID = strings.TrimSpace(req.BranchID)
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		return domain.User{}, store.ErrInvalidInput
	}
	if !validRole(req.Role) {
		return domain.User{}, fmt.Errorf("%w: role must be admin or staff", store.ErrInvalidInput)
	}
	if req.BranchID == "" {
		req.BranchID = s.resolveBranch("")
	}
	if _, err := s.store.BranchByID(req.BranchID); err != nil {
		return domain.User{}, fmt.Errorf("branch %s: %w", req.BranchID, err)
	}
	for _, u := range s.store.Users() {
		if strings.EqualFold(u.Email, req.Email) {
			return domain.User{}, fmt.Errorf("%w: email already in use", store.ErrInvalidInput)
		}
	}

	user := s.store.AddUser(domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		BranchID: req.BranchID,
	})
	s.log.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, req domain.UserUpdateRequest) (domain.User, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.User{}, err
	}

	existing, err := s.store.UserByID(strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, err
	}

	updated := existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.User{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, store.ErrInvalidInput
		}
		for _, u := range s.store.Users() {
			if u.ID != updated.ID && strings.EqualFold(u.Email, email) {
				return domain.User{}, fmt.Errorf("%w: email already in use", store.ErrInvalidInput)
			}
		}
		updated.Email = email
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return domain.User{}, store.ErrInvalidInput
		}
		updated.Role = *req.Role
	}
	if req.BranchID != nil {
		branchID := strings.TrimSpace(*req.BranchID)
		if _, err := s.store.BranchByID(branchID); err != nil {
			return domain.User{}, fmt.Errorf("branch %s: %w", branchID, err)
		}
		updated.BranchID = branchID
	}

	return s.store.UpdateUser(updated)
}

// DeleteUser removes a user record. Deleting yourself is rejected so a shop
// cannot lock out its last admin mid-session.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	actor, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == actor.UserID {
		return fmt.Errorf("%w: cannot delete your own account", store.ErrInvalidInput)
	}
	return s.store.DeleteUser(id)
}
