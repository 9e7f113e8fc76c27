package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/seminarhub/backend/api/transport"
	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/pkg/httpcontext"
	"github.com/seminarhub/backend/repository"
	directoryUC "github.com/seminarhub/backend/usecase/directory"
	enrollmentUC "github.com/seminarhub/backend/usecase/enrollment"
)

type SeminarHandler struct {
	baseHandler
	enrollment *enrollmentUC.UseCase
	directory  *directoryUC.UseCase
}

func NewSeminarHandler(enrollment *enrollmentUC.UseCase, directory *directoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SeminarHandler {
	return &SeminarHandler{
		baseHandler: newBaseHandler(adapter, logger),
		enrollment:  enrollment,
		directory:   directory,
	}
}

// @Summary Create seminar
// @Tags seminars
// @Router /api/v1/seminar [post]
func (h *SeminarHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	input, ok := h.parseSeminar(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.enrollment.CreateSeminar(stdCtx, userID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, detail)
}

// @Summary Update seminar
// @Tags seminars
// @Router /api/v1/seminar/{id} [put]
func (h *SeminarHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	seminarID, ok := h.seminarID(ctx)
	if !ok {
		return
	}
	input, parsed := h.parseSeminar(ctx)
	if !parsed {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.enrollment.UpdateSeminar(stdCtx, userID, seminarID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, detail)
}

// @Summary Seminar detail
// @Tags seminars
// @Router /api/v1/seminar/{id} [get]
func (h *SeminarHandler) Get(ctx *fasthttp.RequestCtx) {
	seminarID, ok := h.seminarID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.directory.Get(stdCtx, seminarID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, detail)
}

// @Summary List seminars
// @Tags seminars
// @Router /api/v1/seminar [get]
func (h *SeminarHandler) List(ctx *fasthttp.RequestCtx) {
	filter := repository.SeminarFilter{
		Name:  string(ctx.QueryArgs().Peek("name")),
		Order: string(ctx.QueryArgs().Peek("order")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summaries, err := h.directory.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summaries)
}

// @Summary Attend seminar
// @Tags seminars
// @Router /api/v1/seminar/{id}/user [post]
func (h *SeminarHandler) Attend(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	seminarID, ok := h.seminarID(ctx)
	if !ok {
		return
	}

	var req transport.AttendRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.enrollment.AttendSeminar(stdCtx, userID, seminarID, domain.Role(req.Role))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, detail)
}

// @Summary Drop seminar
// @Tags seminars
// @Router /api/v1/seminar/{id}/user [delete]
func (h *SeminarHandler) Drop(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	seminarID, ok := h.seminarID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.enrollment.DropSeminar(stdCtx, userID, seminarID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if detail == nil {
		// Dropping a non-member or an already dropped member is a no-op.
		h.respondSuccess(ctx, http.StatusOK, nil)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, detail)
}

func (h *SeminarHandler) parseSeminar(ctx *fasthttp.RequestCtx) (enrollmentUC.SeminarInput, bool) {
	var req transport.SeminarRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload: "+err.Error())
		return enrollmentUC.SeminarInput{}, false
	}
	return enrollmentUC.SeminarInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Count:       req.Count,
		Time:        req.Time,
		StartDate:   req.StartDate,
		Online:      req.Online,
	}, true
}

func (h *SeminarHandler) seminarID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing seminar id")
		return "", false
	}
	return id, true
}
