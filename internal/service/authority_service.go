package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

// AuthorityRouter maps a report category to the authority that should act on
// it: the oldest active authority whose category set contains the category.
// Creation order makes the choice deterministic; jurisdiction is not
// consulted. No match is not an error, the report stays unassigned.
type AuthorityRouter struct {
	repo repository.AuthorityRepository
}

// NewAuthorityRouter creates a router over the authority repository.
func NewAuthorityRouter(repo repository.AuthorityRepository) *AuthorityRouter {
	return &AuthorityRouter{repo: repo}
}

// Route returns the matching authority, or nil when none handles the category.
func (r *AuthorityRouter) Route(ctx context.Context, category model.ReportCategory) (*model.Authority, error) {
	authorities, err := r.repo.ListActiveByCreation(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active authorities: %w", err)
	}
	for i := range authorities {
		if authorities[i].Handles(category) {
			return &authorities[i], nil
		}
	}
	return nil, nil
}

// AuthorityInput carries authority create/update fields.
type AuthorityInput struct {
	Name          string
	Email         string
	ContactNumber string
	Department    model.Department
	Jurisdiction  string
	Categories    []model.ReportCategory
	IsActive      *bool
}

// AuthorityService manages the authority registry.
type AuthorityService interface {
	ListActive(ctx context.Context) ([]model.Authority, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Authority, error)
	Create(ctx context.Context, input AuthorityInput) (*model.Authority, error)
	Update(ctx context.Context, id uuid.UUID, input AuthorityInput) (*model.Authority, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type authorityService struct {
	repo repository.AuthorityRepository
}

// NewAuthorityService creates a new authority service.
func NewAuthorityService(repo repository.AuthorityRepository) AuthorityService {
	return &authorityService{repo: repo}
}

func (s *authorityService) ListActive(ctx context.Context) ([]model.Authority, error) {
	return s.repo.ListActive(ctx)
}

func (s *authorityService) Get(ctx context.Context, id uuid.UUID) (*model.Authority, error) {
	authority, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAuthorityNotFound
		}
		return nil, fmt.Errorf("find authority: %w", err)
	}
	return authority, nil
}

func validateAuthorityInput(input *AuthorityInput) error {
	if input.Name == "" || input.Email == "" || input.Jurisdiction == "" {
		return fmt.Errorf("%w: name, email and jurisdiction are required", errors.ErrValidation)
	}
	switch input.Department {
	case model.DepartmentTrafficPolice, model.DepartmentMunicipal,
		model.DepartmentEnvironmental, model.DepartmentGeneral:
	default:
		return fmt.Errorf("%w: unknown department %q", errors.ErrValidation, input.Department)
	}
	for _, c := range input.Categories {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q", errors.ErrValidation, c)
		}
	}
	return nil
}

func (s *authorityService) Create(ctx context.Context, input AuthorityInput) (*model.Authority, error) {
	if err := validateAuthorityInput(&input); err != nil {
		return nil, err
	}

	authority := &model.Authority{
		Name:          input.Name,
		Email:         input.Email,
		ContactNumber: input.ContactNumber,
		Department:    input.Department,
		Jurisdiction:  input.Jurisdiction,
		Categories:    input.Categories,
		IsActive:      true,
	}
	if input.IsActive != nil {
		authority.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, authority); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: authority with this email already exists", errors.ErrDuplicateAction)
		}
		return nil, fmt.Errorf("create authority: %w", err)
	}
	return authority, nil
}

func (s *authorityService) Update(ctx context.Context, id uuid.UUID, input AuthorityInput) (*model.Authority, error) {
	authority, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		authority.Name = input.Name
	}
	if input.Email != "" {
		authority.Email = input.Email
	}
	if input.ContactNumber != "" {
		authority.ContactNumber = input.ContactNumber
	}
	if input.Department != "" {
		authority.Department = input.Department
	}
	if input.Jurisdiction != "" {
		authority.Jurisdiction = input.Jurisdiction
	}
	if input.Categories != nil {
		authority.Categories = input.Categories
	}
	if input.IsActive != nil {
		authority.IsActive = *input.IsActive
	}

	for _, c := range authority.Categories {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", errors.ErrValidation, c)
		}
	}

	if err := s.repo.Update(ctx, authority); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: authority with this email already exists", errors.ErrDuplicateAction)
		}
		return nil, fmt.Errorf("update authority: %w", err)
	}
	return authority, nil
}

func (s *authorityService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete authority: %w", err)
	}
	if !deleted {
		return errors.ErrAuthorityNotFound
	}
	return nil
}
