package inmemdb

import (
	"context"

	"github.com/trezcool/darsban/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) CreateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, row := range repo.db.rows {
		if row.Code == sch.Code {
			return school.School{}, school.ErrCodeExists
		}
	}
	repo.db.rows = append(repo.db.rows, sch)
	return sch, nil
}

func (repo *schoolRepository) QuerySchools(_ context.Context) ([]school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	schools := make([]school.School, len(repo.db.rows))
	copy(schools, repo.db.rows)
	return schools, nil
}
