package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/profile/model"
	gDto "gamasa/shared/dto"
	gRepo "gamasa/shared/repository"
)

type Profile interface {
	Insert(ctx context.Context, model model.Profile) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Profile, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Profile, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	IDsByRoles(ctx context.Context, roles ...string) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Profile]
}

func New(db *postgres.Connection, otel otel.Otel) Profile {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Profile](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// IDsByRoles returns the ids of active profiles holding any of roles.
func (r *repositoryImpl) IDsByRoles(ctx context.Context, roles ...string) ([]string, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorIn, Value: roles, Table: model.TableName},
			gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}

	profiles, err := r.GetAll(ctx, gDto.QueryParams{}, filter, model.FieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile ids by role: %w", err)
	}

	ids := make([]string, len(profiles))
	for i, profile := range profiles {
		ids[i] = profile.ID
	}

	return ids, nil
}
