package echoapi

import (
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
)

var errMissingFile = errors.New("missing file")

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(g *echo.Group, jwt, ctxUser echo.MiddlewareFunc, svc *assignment.Service, maxUploadSize string) {
	api := assignmentApi{svc: svc}

	ag := g.Group("/assignments", jwt, ctxUser)
	ag.POST("", api.submit, middleware.BodyLimit(maxUploadSize))
	ag.GET("", api.query)
	ag.GET("/:id/download", api.download)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(errMissingFile, core.FieldError{Field: "file", Error: "this field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	a, err := api.svc.Submit(ctx.Request().Context(), actor, fh.Filename, data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	as, err := api.svc.List(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *assignmentApi) download(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	a, data, err := api.svc.FetchBlob(ctx.Request().Context(), actor, id)
	if err != nil {
		return errors.Wrap(err, "fetching assignment")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(a.Filename))
	return ctx.Blob(http.StatusOK, http.DetectContentType(data), data)
}
