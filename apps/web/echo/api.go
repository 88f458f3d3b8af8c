package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/user"
)

type jsonAPI struct {
	deps Deps
	auth *authenticator
}

func registerAPI(g *echo.Group, deps Deps, auth *authenticator) {
	api := jsonAPI{deps: deps, auth: auth}
	jwt := auth.bearerJWT()
	onlyAdmin := roleMiddleware(user.RoleSystemAdmin)
	onlyTeacher := roleMiddleware(user.RoleTeacher)
	onlyStudent := roleMiddleware(user.RoleStudent)

	// un-authed endpoints
	g.POST("/users/login", api.login)

	// authed endpoints
	g.POST("/users/token-refresh", api.refreshToken, jwt)
	g.GET("/users", api.queryUsers, jwt, onlyAdmin)
	g.POST("/users", api.createUser, jwt, onlyAdmin)
	g.GET("/users/roles", api.queryRoles, jwt, onlyAdmin)
	g.GET("/schools", api.querySchools, jwt, onlyAdmin)

	g.GET("/scores", api.queryScores, jwt, onlyTeacher)
	g.POST("/scores", api.recordScore, jwt, onlyTeacher)
	g.GET("/scores/averages", api.classAverages, jwt, onlyTeacher)
	g.GET("/scores/roster", api.roster, jwt, onlyTeacher)

	g.GET("/me", api.me, jwt)
	g.GET("/me/report", api.myReport, jwt, onlyStudent)
	g.GET("/me/report.csv", api.myReportCSV, jwt, onlyStudent)
}

// Handlers

func (api *jsonAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := api.deps.Validate.Struct(data); err != nil {
		return err
	}

	_, token, err := api.auth.login(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *jsonAPI) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *jsonAPI) queryUsers(ctx echo.Context) error {
	users, err := api.deps.UserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *jsonAPI) createUser(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *jsonAPI) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *jsonAPI) querySchools(ctx echo.Context) error {
	schools, err := api.deps.SchoolSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing schools")
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *jsonAPI) queryScores(ctx echo.Context) error {
	var filter gradebook.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	scores, err := api.deps.Gradebook.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying scores")
	}
	if scores == nil {
		scores = []gradebook.Score{}
	}
	return ctx.JSON(http.StatusOK, scores)
}

func (api *jsonAPI) recordScore(ctx echo.Context) error {
	var data gradebook.NewScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScore")
	}
	grades := api.deps.Gradebook
	if err := data.Validate(api.deps.Validate, grades.Roster()); err != nil {
		return err
	}

	score, err := grades.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	return ctx.JSON(http.StatusCreated, score)
}

func (api *jsonAPI) classAverages(ctx echo.Context) error {
	averages, err := api.deps.Gradebook.ClassAverages(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing class averages")
	}
	return ctx.JSON(http.StatusOK, averages)
}

func (api *jsonAPI) roster(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.Gradebook.Roster())
}

func (api *jsonAPI) me(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *jsonAPI) myReport(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	card, err := api.deps.Gradebook.ReportCard(ctx.Request().Context(), usr.StudentName())
	if err != nil {
		return errors.Wrap(err, "computing report card")
	}
	return ctx.JSON(http.StatusOK, card)
}

func (api *jsonAPI) myReportCSV(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	card, err := api.deps.Gradebook.ReportCard(ctx.Request().Context(), usr.StudentName())
	if err != nil {
		return errors.Wrap(err, "computing report card")
	}
	if card.Empty() {
		return errHttpNotFound
	}
	return sendCSV(ctx, card)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)
