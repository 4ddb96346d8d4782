package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/admin/model"
	"gamasa/shared/constant"
	"gamasa/shared/logger"
)

type Stats interface {
	GroupCount(ctx context.Context, table, column string) (map[string]int, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Stats {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

// GroupCount counts the rows of table per value of column. Both names come from model
// constants and are never user input.
func (r *repositoryImpl) GroupCount(ctx context.Context, table, column string) (map[string]int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".admin.GroupCount")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s AS key, COUNT(*) AS total FROM %s GROUP BY %s", column, table, column)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.GroupCount
	if err := r.db.Read.SelectContext(ctx, &rows, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count %s by %s: %w", table, column, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Total
	}

	return counts, nil
}
