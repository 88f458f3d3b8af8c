package inmemdb

import (
	"sync"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
)

type (
	// DB keeps every table in process memory; nothing outlives the process.
	DB struct {
		user   *userTable
		school *schoolTable
		score  *scoreTable
	}

	userTable struct {
		table map[string]*user.User
		order []string // insertion order of IDs
		mutex sync.RWMutex
	}

	schoolTable struct {
		rows  []school.School
		mutex sync.RWMutex
	}

	scoreTable struct {
		rows  []gradebook.Score
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		school: &schoolTable{},
		score:  &scoreTable{},
	}
}
