package user_test

import (
	"context"
	"strings"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
	inmemdb "github.com/trezcool/darsban/storage/database/inmem"
)

func setup(t *testing.T) (*user.Service, *validator.Validate, ut.Translator) {
	svc := user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return svc, validate, translator
}

func createUser(t *testing.T, svc *user.Service, uname, pwd, role string) user.User {
	usr, err := svc.Create(context.Background(), user.NewUser{
		Name:     "Test " + uname,
		Username: uname,
		Role:     role,
		School:   "شهید بهشتی",
		Password: pwd,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	created := createUser(t, svc, "teacher1", "teacher123", user.RoleTeacher)

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "exact match", uname: "teacher1", pwd: "teacher123"},
		{name: "wrong password", uname: "teacher1", pwd: "teacher12", wantErr: user.ErrInvalidCredentials},
		{name: "case changed username", uname: "Teacher1", pwd: "teacher123", wantErr: user.ErrInvalidCredentials},
		{name: "case changed password", uname: "teacher1", pwd: "TEACHER123", wantErr: user.ErrInvalidCredentials},
		{name: "padded username", uname: " teacher1", pwd: "teacher123", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", uname: "nobody", pwd: "teacher123", wantErr: user.ErrInvalidCredentials},
		{name: "empty", wantErr: user.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, usr.ID)
			assert.Equal(t, user.RoleTeacher, usr.Role)
			assert.False(t, usr.LastLogin.IsZero())
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	usr := createUser(t, svc, "admin", "admin123", user.RoleSystemAdmin)
	assert.NotEmpty(t, usr.ID)
	assert.NotEqual(t, []byte("admin123"), usr.PasswordHash)
	assert.NoError(t, usr.CheckPassword("admin123"))
	assert.True(t, usr.IsSystemAdmin())

	got, err := svc.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByID(ctx, "lol")
	assert.Equal(t, user.ErrNotFound, err)

	createUser(t, svc, "student1", "student123", user.RoleStudent)
	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "student1", users[1].Username)
}

func TestNewUser_Validate(t *testing.T) {
	svc, validate, translator := setup(t)
	ctx := context.Background()
	createUser(t, svc, "teacher1", "teacher123", user.RoleTeacher)

	valid := user.NewUser{
		Name:            "مریم حسینی",
		Username:        "maryam_h",
		Role:            user.RoleStudent,
		School:          "شهید بهشتی",
		Password:        "Gol-Sorkh#2024",
		PasswordConfirm: "Gol-Sorkh#2024",
	}
	with := func(edit func(nu *user.NewUser)) user.NewUser {
		nu := valid
		edit(&nu)
		return nu
	}

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr map[string]string
	}{
		{name: "valid", nu: valid},
		{
			name: "missing fields",
			nu:   user.NewUser{},
			wantErr: map[string]string{
				"name":             "this field is required",
				"username":         "this field is required",
				"role":             "this field is required",
				"school":           "this field is required",
				"password":         "this field is required",
				"password_confirm": "this field is required",
			},
		},
		{
			name:    "bad username",
			nu:      with(func(nu *user.NewUser) { nu.Username = "maryam h" }),
			wantErr: map[string]string{"username": "only alphanumeric characters and underscores are allowed"},
		},
		{
			name:    "unknown role",
			nu:      with(func(nu *user.NewUser) { nu.Role = "principal" }),
			wantErr: map[string]string{"role": "invalid role"},
		},
		{
			name: "short password",
			nu: with(func(nu *user.NewUser) {
				nu.Password, nu.PasswordConfirm = "Ab1#", "Ab1#"
			}),
			wantErr: map[string]string{"password": "password must contain at least 8 characters"},
		},
		{
			name: "password over 72 bytes",
			nu: with(func(nu *user.NewUser) {
				pwd := "Gol-Sorkh#2024" + strings.Repeat("گل", 15) // 14 + 60 bytes
				nu.Password, nu.PasswordConfirm = pwd, pwd
			}),
			wantErr: map[string]string{"password": "password must not exceed 72 bytes"},
		},
		{
			name: "numeric password",
			nu: with(func(nu *user.NewUser) {
				nu.Password, nu.PasswordConfirm = "12345678", "12345678"
			}),
			wantErr: map[string]string{"password": "password cannot be entirely numeric"},
		},
		{
			name: "simple password",
			nu: with(func(nu *user.NewUser) {
				nu.Password, nu.PasswordConfirm = "golsorkh2024", "golsorkh2024"
			}),
			wantErr: map[string]string{"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"},
		},
		{
			name: "password like username",
			nu: with(func(nu *user.NewUser) {
				nu.Password, nu.PasswordConfirm = "Maryam_H1", "Maryam_H1"
			}),
			wantErr: map[string]string{"password": "password cannot be similar to user attributes"},
		},
		{
			name:    "password mismatch",
			nu:      with(func(nu *user.NewUser) { nu.PasswordConfirm = "Gol-Sorkh#2025" }),
			wantErr: map[string]string{"password_confirm": "password_confirm must be equal to Password"},
		},
		{
			name:    "username taken",
			nu:      with(func(nu *user.NewUser) { nu.Username = "teacher1" }),
			wantErr: map[string]string{"username": user.ErrUsernameExists.Error()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(ctx, validate, svc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			switch vErr := err.(type) {
			case validator.ValidationErrors:
				assert.Equal(t, tt.wantErr, core.TranslateErrors(vErr, translator))
			case *core.ValidationError:
				assert.Equal(t, tt.wantErr, vErr.FieldMap())
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestService_Create_longestPassword(t *testing.T) {
	svc, validate, _ := setup(t)
	ctx := context.Background()

	pwd := "Gol-Sorkh#2024" + strings.Repeat("گل", 14) + "ab" // 72 bytes
	nu := user.NewUser{
		Name:            "مریم حسینی",
		Username:        "maryam_h",
		Role:            user.RoleStudent,
		School:          "شهید بهشتی",
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	require.NoError(t, nu.Validate(ctx, validate, svc))

	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword(pwd))
}

func TestUser_StudentName(t *testing.T) {
	assert.Equal(t, "علی محمدی", user.User{Name: "Ali", Student: "علی محمدی"}.StudentName())
	assert.Equal(t, "Ali", user.User{Name: "Ali"}.StudentName())
}
