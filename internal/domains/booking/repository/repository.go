package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/booking/model"
	gDto "gamasa/shared/dto"
	gRepo "gamasa/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// OverlapFilter matches confirmed stays of the property that intersect [checkIn, checkOut).
func OverlapFilter(propertyID string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldPropertyID, Operator: gDto.FilterOperatorEq, Value: propertyID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusConfirmed, Table: model.TableName},
			gDto.Filter{ArgName: "requested_check_out", Field: model.FieldCheckIn, Operator: gDto.FilterOperatorLess, Value: checkOut, Table: model.TableName},
			gDto.Filter{ArgName: "requested_check_in", Field: model.FieldCheckOut, Operator: gDto.FilterOperatorGreater, Value: checkIn, Table: model.TableName},
		},
	}
}
