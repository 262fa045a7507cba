package router

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/dataset"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"github.com/DjordjeVuckovic/ann-bench/internal/plotting"
	"github.com/DjordjeVuckovic/ann-bench/internal/results"
	pkgserver "github.com/DjordjeVuckovic/ann-bench/pkg/server"
	"github.com/DjordjeVuckovic/ann-bench/pkg/stringsutil"
	"github.com/labstack/echo/v4"
)

// PlotRouter serves dataset listings and renders comparison charts on
// demand.
type PlotRouter struct {
	e        *echo.Echo
	store    results.Store
	provider dataset.Provider
	engine   *metrics.Engine
	health   pkgserver.HealthChecker
}

func NewPlotRouter(e *echo.Echo, store results.Store, provider dataset.Provider, engine *metrics.Engine, health pkgserver.HealthChecker) *PlotRouter {
	return &PlotRouter{
		e:        e,
		store:    store,
		provider: provider,
		engine:   engine,
		health:   health,
	}
}

func (r *PlotRouter) Bind() {
	r.e.GET("/healthz", r.healthHandler)
	r.e.GET("/datasets", r.datasetsHandler)
	r.e.GET("/datasets/:name/plot", r.plotHandler)
}

func (r *PlotRouter) healthHandler(c echo.Context) error {
	if !r.health.Healthy(c.Request().Context()) {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

func (r *PlotRouter) datasetsHandler(c echo.Context) error {
	names, err := r.store.ListDatasets(c.Request().Context())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"datasets": names})
}

func (r *PlotRouter) plotHandler(c echo.Context) error {
	name := c.Param("name")

	xName := c.QueryParam("x")
	if xName == "" {
		xName = "k-nn"
	}
	yName := c.QueryParam("y")
	if yName == "" {
		yName = "qps"
	}

	xm, ok := metrics.Lookup(xName)
	if !ok {
		return apperr.NewValidation("unknown x metric: " + xName)
	}
	ym, ok := metrics.Lookup(yName)
	if !ok {
		return apperr.NewValidation("unknown y metric: " + yName)
	}

	var algorithms []string
	if algos := c.QueryParam("algos"); algos != "" {
		parts := strings.Split(algos, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		algorithms = stringsutil.RemoveEmptyStrings(parts)
	}

	opts := plotting.DataOptions{
		Batch:      c.QueryParam("batch") == "true",
		Recompute:  c.QueryParam("recompute") == "true",
		Algorithms: algorithms,
	}

	sets, err := plotting.BuildPointSets(c.Request().Context(), r.store, r.provider, r.engine, name, xm, ym, opts)
	if err != nil {
		return err
	}

	var contentType string
	format := c.QueryParam("format")
	switch format {
	case "", "png":
		format = "png"
		contentType = "image/png"
	case "svg":
		contentType = "image/svg+xml"
	default:
		return apperr.NewValidation("unsupported format: " + format)
	}

	cfg := plotting.Config{
		XScale:  plotting.Scale(c.QueryParam("x_scale")),
		YScale:  plotting.Scale(c.QueryParam("y_scale")),
		ShowRaw: c.QueryParam("raw") == "true",
	}

	// Render fully before committing the response so failures still map
	// to their status codes.
	var buf bytes.Buffer
	if err := plotting.Render(&buf, sets, xm, ym, cfg, format); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
