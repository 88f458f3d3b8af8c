package school

import (
	"context"
	"errors"
)

var ErrCodeExists = errors.New("a school with this code already exists")

type (
	School struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		StudentCount int    `json:"student_count"`
	}

	Repository interface {
		CreateSchool(ctx context.Context, sch School) (School, error)
		// QuerySchools returns schools in insertion order.
		QuerySchools(ctx context.Context) ([]School, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, sch School) (School, error) {
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *Service) List(ctx context.Context) ([]School, error) {
	return svc.repo.QuerySchools(ctx)
}
