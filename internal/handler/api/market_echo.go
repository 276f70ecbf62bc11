package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	models "SectorPulse/internal/domain/models"
	"SectorPulse/internal/usecase"
	pkgcache "SectorPulse/pkg/cache"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler exposes the aggregation facade over Echo.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	agg    *usecase.MarketAggregator

	// optional shared response cache for the serialized ranking payload;
	// the in-process TTL cache stays authoritative
	shared    pkgcache.Service
	sharedTTL time.Duration
}

func NewMarketEchoHandler(logger *xlogger.Logger, agg *usecase.MarketAggregator) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, agg: agg}
}

// SetSharedCache enables the cross-process response cache.
func (h *MarketEchoHandler) SetSharedCache(c pkgcache.Service, ttl time.Duration) {
	h.shared = c
	h.sharedTTL = ttl
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/quotes", h.Quotes)
	g.GET("/sectors/weakest", h.WeakestSectors)
	g.GET("/yields", h.Yields)
	g.GET("/news", h.News)
	g.GET("/sentiment", h.Sentiment)
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *MarketEchoHandler) Quotes(c echo.Context) error {
	req := &models.QuotesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := splitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, "symbols required")
	}

	snap, err := h.agg.Snapshot(c.Request().Context(), symbols, req.Date)
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketEchoHandler) WeakestSectors(c echo.Context) error {
	req := &models.WeakestSectorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sharedKey := pkgcache.GenerateKeyWithParams("ranking", req.N, req.Narrative)
	if h.shared != nil {
		if body, err := h.shared.Get(c.Request().Context(), sharedKey); err == nil {
			return c.JSONBlob(http.StatusOK, []byte(body))
		} else if !errors.Is(err, pkgcache.ErrCacheMiss) {
			h.logger.Warn("shared cache get failed", xlogger.Error(err))
		}
	}

	ranking, err := h.agg.WeakestSectors(c.Request().Context(), req.N, req.Narrative)
	if err != nil {
		h.logger.Error("ranking usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	if h.shared != nil {
		if body, merr := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: "OK", Data: ranking}); merr == nil {
			if serr := h.shared.Set(c.Request().Context(), sharedKey, string(body), h.sharedTTL); serr != nil {
				h.logger.Warn("shared cache set failed", xlogger.Error(serr))
			}
		}
	}
	return xhttp.SuccessResponse(c, ranking)
}

func (h *MarketEchoHandler) Yields(c echo.Context) error {
	snap, err := h.agg.YieldCurve(c.Request().Context())
	if err != nil {
		h.logger.Error("yields usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketEchoHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	items, err := h.agg.News(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("news usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, items)
}

func (h *MarketEchoHandler) Sentiment(c echo.Context) error {
	idx, err := h.agg.Sentiment(c.Request().Context())
	if err != nil {
		h.logger.Error("sentiment usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, idx)
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

// toAppError maps the domain error taxonomy onto HTTP statuses.
func toAppError(err error) error {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, models.ErrNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrRateLimited):
		return xhttp.UnavailableError("upstream rate limited").WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnavailableError("insufficient upstream data").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
