package inmemdb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(Open())
	ctx := context.Background()

	for _, u := range []user.User{
		{ID: "1", Username: "admin", Role: user.RoleSystemAdmin},
		{ID: "2", Username: "teacher1", Role: user.RoleTeacher},
	} {
		_, err := repo.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	users, err := repo.QueryAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)

	_, err = repo.GetUserByUsername(ctx, "Admin")
	assert.Equal(t, user.ErrNotFound, err)

	usr, err := repo.GetUserByUsername(ctx, "teacher1")
	require.NoError(t, err)
	usr.Name = "فاطمه سیفی پور"
	_, err = repo.UpdateUser(ctx, usr)
	require.NoError(t, err)

	usr, err = repo.GetUserByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "فاطمه سیفی پور", usr.Name)

	_, err = repo.UpdateUser(ctx, user.User{ID: "3"})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestSchoolRepository(t *testing.T) {
	repo := NewSchoolRepository(Open())
	ctx := context.Background()

	_, err := repo.CreateSchool(ctx, school.School{Name: "دبستان شهید بهشتی", Code: "SB1001", StudentCount: 150})
	require.NoError(t, err)
	_, err = repo.CreateSchool(ctx, school.School{Name: "copy", Code: "SB1001"})
	assert.Equal(t, school.ErrCodeExists, err)

	schools, err := repo.QuerySchools(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 1)

	// results are copies
	schools[0].Name = "lol"
	schools, err = repo.QuerySchools(ctx)
	require.NoError(t, err)
	assert.Equal(t, "دبستان شهید بهشتی", schools[0].Name)
}

func TestScoreRepository(t *testing.T) {
	repo := NewScoreRepository(Open())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subject := "ریاضی"
			if i%2 == 0 {
				subject = "علوم"
			}
			_, err := repo.CreateScores(ctx, gradebook.Score{Student: "علی محمدی", Subject: subject, Grade: 1 + i%4})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := repo.QueryScores(ctx, gradebook.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 20)

	maths, err := repo.QueryScores(ctx, gradebook.QueryFilter{Student: "علی محمدی", Subject: "ریاضی"})
	require.NoError(t, err)
	assert.Len(t, maths, 10)

	none, err := repo.QueryScores(ctx, gradebook.QueryFilter{Student: "رضا کریمی"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
