package inmemdb

import (
	"context"

	"github.com/trezcool/darsban/core/gradebook"
)

type scoreRepository struct {
	db *scoreTable
}

var _ gradebook.Repository = (*scoreRepository)(nil)

func NewScoreRepository(db *DB) gradebook.Repository {
	return &scoreRepository{db: db.score}
}

func (repo *scoreRepository) CreateScores(_ context.Context, scores ...gradebook.Score) ([]gradebook.Score, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows = append(repo.db.rows, scores...)
	return scores, nil
}

// QueryScores returns matching rows in insertion order.
func (repo *scoreRepository) QueryScores(_ context.Context, filter gradebook.QueryFilter) ([]gradebook.Score, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scores := make([]gradebook.Score, 0, len(repo.db.rows))
	for _, row := range repo.db.rows {
		if filter.Student != "" && row.Student != filter.Student {
			continue
		}
		if filter.Subject != "" && row.Subject != filter.Subject {
			continue
		}
		scores = append(scores, row)
	}
	return scores, nil
}
