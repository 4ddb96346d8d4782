package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/review/model"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/logger"
	gRepo "gamasa/shared/repository"
)

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Summary(ctx context.Context, propertyID string) (model.Summary, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Summary(ctx context.Context, propertyID string) (model.Summary, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.Summary")
	defer scope.End()

	query := fmt.Sprintf("SELECT COUNT(*) AS count, COALESCE(AVG(%s), 0) AS average FROM %s WHERE %s = $1",
		model.FieldRating, model.TableName, model.FieldPropertyID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var summary model.Summary
	if err := r.db.Read.GetContext(ctx, &summary, query, propertyID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return summary, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	return summary, nil
}
