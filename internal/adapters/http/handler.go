package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Magnamura/card-weaving-generator/internal/app"
	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

type Handler struct {
	svc *app.WeavingService
}

func NewHandler(svc *app.WeavingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/v1/patterns", h.GeneratePattern)
	e.GET("/v1/drafts", h.ListDrafts)
	e.GET("/v1/drafts/:id", h.GetDraft)
	e.GET("/v1/drafts/:id/pattern", h.DraftPattern)
	e.POST("/v1/turning/script", h.RunScript)
	e.GET("/v1/palette", h.GetPalette)
	e.POST("/v1/palette", h.AddColor)
	e.DELETE("/v1/palette", h.ResetPalette)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) GeneratePattern(c echo.Context) error {
	var body PatternRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	req, err := body.ToApp()
	if err != nil {
		return mapError(c, err)
	}

	resp, err := h.svc.Generate(c.Request().Context(), req)
	if err != nil {
		return mapError(c, err)
	}
	return h.respondPattern(c, resp)
}

func (h *Handler) ListDrafts(c echo.Context) error {
	list, err := h.svc.Drafts(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	out := make([]DraftSummary, len(list))
	for i, d := range list {
		out[i] = DraftSummary{ID: d.ID, Name: d.Name, Cards: len(d.Threading), Rows: len(d.Turning)}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetDraft(c echo.Context) error {
	d, err := h.svc.Draft(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) DraftPattern(c echo.Context) error {
	_, resp, err := h.svc.GenerateDraft(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return h.respondPattern(c, resp)
}

func (h *Handler) RunScript(c echo.Context) error {
	var body ScriptRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if body.Source == "" || body.Rows < 0 || body.Cards < 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "source is required and rows, cards must not be negative"})
	}

	seq, err := h.svc.Script(c.Request().Context(), body.Source, body.Rows, body.Cards)
	if err != nil {
		return mapError(c, err)
	}
	rows := make([]TurnRow, len(seq))
	for i, row := range seq {
		rows[i] = TurnRow(row)
	}
	return c.JSON(http.StatusOK, ScriptResponse{Turning: rows})
}

func (h *Handler) GetPalette(c echo.Context) error {
	return c.JSON(http.StatusOK, PaletteResponse{Colors: h.svc.Palette()})
}

func (h *Handler) AddColor(c echo.Context) error {
	var body ColorRequest
	if err := c.Bind(&body); err != nil || body.Color == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "color is required"})
	}
	colors, err := h.svc.AddColor(c.Request().Context(), domain.Color(body.Color))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, PaletteResponse{Colors: colors})
}

func (h *Handler) ResetPalette(c echo.Context) error {
	colors, err := h.svc.ResetPalette(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, PaletteResponse{Colors: colors})
}

// respondPattern writes JSON by default, or a rendering when
// ?format= names another format.
func (h *Handler) respondPattern(c echo.Context, resp app.GenerateResponse) error {
	format := c.QueryParam("format")
	if format == "" {
		requestID := RequestID(c)
		return c.JSON(http.StatusOK, ToPatternResponse(resp, requestID))
	}

	contentType, err := h.svc.ContentType(format)
	if err != nil {
		return mapError(c, err)
	}
	var buf bytes.Buffer
	if err := h.svc.Render(&buf, format, resp.Pattern); err != nil {
		return mapError(c, err)
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func mapError(c echo.Context, err error) error {
	requestID := RequestID(c)

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidTurn), errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrEmptyColor), errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrUnknownFormat):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrScript):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
