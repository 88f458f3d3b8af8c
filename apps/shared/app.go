// Package shared wires the services every app of the module runs on.
package shared

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
	inmemdb "github.com/trezcool/darsban/storage/database/inmem"
	"github.com/trezcool/darsban/storage/demo"
)

type App struct {
	UserSvc    *user.Service
	SchoolSvc  *school.Service
	Gradebook  *gradebook.Service
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// NewApp sets up the services on a fresh in-memory database.
// In demo mode the sample data is loaded; otherwise the stores start empty.
func NewApp(ctx context.Context, conf *core.Config) (*App, error) {
	db := inmemdb.Open()

	var roster gradebook.Roster
	if conf.DemoMode {
		roster = demo.Roster
	}

	app := &App{
		UserSvc:   user.NewService(inmemdb.NewUserRepository(db)),
		SchoolSvc: school.NewService(inmemdb.NewSchoolRepository(db)),
		Gradebook: gradebook.NewService(inmemdb.NewScoreRepository(db), roster),
	}
	app.Validate, app.Translator = NewValidator()

	if conf.DemoMode {
		if err := demo.Load(ctx, app.UserSvc, app.SchoolSvc, app.Gradebook); err != nil {
			return nil, errors.Wrap(err, "loading demo data")
		}
	}
	return app, nil
}
