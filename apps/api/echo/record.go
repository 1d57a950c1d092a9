package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/record"
	"github.com/trezcool/academia/core/report"
)

type recordApi struct {
	svc    *record.Service
	report *report.Service
}

func registerRecordAPI(
	g *echo.Group,
	jwt, ctxUser echo.MiddlewareFunc,
	svc *record.Service,
	reportSvc *report.Service,
	maxUploadSize string,
) {
	api := recordApi{svc: svc, report: reportSvc}

	rg := g.Group("/records", jwt, ctxUser)
	rg.GET("", api.query)
	rg.POST("/import", api.importCSV, middleware.BodyLimit(maxUploadSize))
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id/grades", api.setGrades)
	rg.GET("/:id/export", api.export)
}

func (api *recordApi) query(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.Query(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *recordApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), actor, id)
	if err != nil {
		return errors.Wrap(err, "getting student record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *recordApi) setGrades(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	var data record.GradesUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradesUpdate")
	}
	rec, err := api.svc.SetGrades(ctx.Request().Context(), actor, id, data.Grades)
	if err != nil {
		return errors.Wrap(err, "setting grades")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// importCSV expects the CSV either as the "file" multipart field or as the raw body.
func (api *recordApi) importCSV(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	// form parsing would consume any other body, so it is only done for multipart uploads
	body := ctx.Request().Body
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return core.NewValidationError(errMissingFile, core.FieldError{Field: "file", Error: "this field is required"})
		}
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded CSV")
		}
		defer func() { _ = f.Close() }()
		body = f
	}

	summary, err := api.svc.ImportCSV(ctx.Request().Context(), actor, body)
	if err != nil {
		return errors.Wrap(err, "importing grades")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *recordApi) export(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	fmtParam := ctx.QueryParam("format")
	if fmtParam == "" {
		fmtParam = string(report.FormatCSV)
	}
	format, err := report.ParseFormat(fmtParam)
	if err != nil {
		return err
	}

	doc, err := api.report.Export(ctx.Request().Context(), actor, id, format)
	if err != nil {
		return errors.Wrap(err, "exporting student record")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(doc.Filename))
	return ctx.Blob(http.StatusOK, doc.ContentType, doc.Data)
}
