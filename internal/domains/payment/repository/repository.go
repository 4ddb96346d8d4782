package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/payment/model"
	gDto "gamasa/shared/dto"
	gRepo "gamasa/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTxAffected(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Unlock interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Unlock) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Unlock, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Unlock, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type paymentRepositoryImpl struct {
	gRepo.Repository[model.Payment]
}

func NewPayment(db *postgres.Connection, otel otel.Otel) Payment {
	return &paymentRepositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type unlockRepositoryImpl struct {
	gRepo.Repository[model.Unlock]
}

func NewUnlock(db *postgres.Connection, otel otel.Otel) Unlock {
	return &unlockRepositoryImpl{
		Repository: gRepo.NewRepository[model.Unlock](model.UnlockEntityName, model.UnlockTableName, model.FieldID, db, otel),
	}
}
