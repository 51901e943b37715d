package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fintrack-server/src/models"
)

// CategoryService owns the shared category reference data and the
// type-consistency check applied to every transaction write.
type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

type CreateCategoryInput struct {
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Icon  string                 `json:"icon"`
	Color string                 `json:"color"`
}

type UpdateCategoryInput struct {
	Name  *string                 `json:"name"`
	Type  *models.TransactionType `json:"type"`
	Icon  *string                 `json:"icon"`
	Color *string                 `json:"color"`
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, NotFoundError("category not found")
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, t *models.TransactionType) ([]models.Category, error) {
	if t != nil && !t.Valid() {
		return nil, InvalidError("invalid category type")
	}
	return s.store.ListCategories(ctx, t)
}

func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, InvalidError("category name is required")
	}
	if !input.Type.Valid() {
		return nil, InvalidError("invalid category type")
	}
	existing, err := s.store.GetCategoryByNameAndType(ctx, input.Name, input.Type, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ConflictError(fmt.Sprintf("category with name '%s' and type '%s' already exists", input.Name, input.Type))
	}
	return s.store.CreateCategory(ctx, &models.Category{
		Name:  input.Name,
		Type:  input.Type,
		Icon:  input.Icon,
		Color: input.Color,
	})
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, InvalidError("invalid category type")
		}
		category.Type = *input.Type
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.Color != nil {
		category.Color = *input.Color
	}

	if input.Name != nil || input.Type != nil {
		duplicate, err := s.store.GetCategoryByNameAndType(ctx, category.Name, category.Type, &id)
		if err != nil {
			return nil, err
		}
		if duplicate != nil {
			return nil, ConflictError(fmt.Sprintf("category with name '%s' and type '%s' already exists", category.Name, category.Type))
		}
	}

	return s.store.UpdateCategory(ctx, category)
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	refs, err := s.store.CountCategoryRefs(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ConflictError("category is referenced by existing transactions or budgets")
	}
	return s.store.DeleteCategory(ctx, id)
}

// Validate resolves categoryID and checks that its type matches
// transactionType. It is invoked on every transaction create, and on any
// update that changes the type or the category reference.
func (s *CategoryService) Validate(ctx context.Context, transactionType models.TransactionType, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.store.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, NotFoundError("category not found")
	}
	if category.Type != transactionType {
		return nil, TypeMismatchError(fmt.Sprintf("category type (%s) does not match transaction type (%s)", category.Type, transactionType))
	}
	return category, nil
}
