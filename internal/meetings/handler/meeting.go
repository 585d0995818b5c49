package handler

import (
	"net/http"
	"strconv"
	"time"

	"roombook/internal/meetings/service"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MeetingHandler struct {
	service service.SchedulingService
	log     *logger.Logger
}

func NewMeetingHandler(service service.SchedulingService, log *logger.Logger) *MeetingHandler {
	return &MeetingHandler{
		service: service,
		log:     log,
	}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.MeetingCreate
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	meeting, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, meeting); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *MeetingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", meeting)
}

func (h *MeetingHandler) GetByAccessCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.GetByAccessCode(r.Context(), ps.ByName("code"))
	if err != nil {
		h.writeError(w, "GetByAccessCode", err)
		return
	}
	h.writeSuccess(w, "GetByAccessCode", meeting)
}

func (h *MeetingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	from, err := httputil.QueryTime(r, "start_date")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	to, err := httputil.QueryTime(r, "end_date")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	filter := model.MeetingFilter{
		RoomID:         query.Get("room_id"),
		OrganizerEmail: query.Get("organizer_email"),
		Status:         model.MeetingStatus(query.Get("status")),
		From:           from,
		To:             to,
	}

	meetings, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, meetings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *MeetingHandler) Upcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.writeError(w, "Upcoming", apperrors.InvalidInput("invalid limit parameter: "+s))
			return
		}
		limit = v
	}

	meetings, err := h.service.Upcoming(r.Context(), limit)
	if err != nil {
		h.writeError(w, "Upcoming", err)
		return
	}
	h.writeSuccess(w, "Upcoming", meetings)
}

func (h *MeetingHandler) RoomSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, err := time.Parse(time.DateOnly, ps.ByName("date"))
	if err != nil {
		h.writeError(w, "RoomSchedule", apperrors.InvalidInput("invalid date format, must be YYYY-MM-DD"))
		return
	}

	meetings, err := h.service.RoomSchedule(r.Context(), ps.ByName("room_id"), day)
	if err != nil {
		h.writeError(w, "RoomSchedule", err)
		return
	}
	h.writeSuccess(w, "RoomSchedule", meetings)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.MeetingUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	meeting, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", meeting)
}

func (h *MeetingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in model.MeetingCancel
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &in); err != nil {
			h.writeError(w, "Cancel", err)
			return
		}
	}

	meeting, err := h.service.CancelByID(r.Context(), ps.ByName("id"), &in)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	h.writeSuccess(w, "Cancel", meeting)
}

func (h *MeetingHandler) CancelByAccessCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.MeetingCancelByCode
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "CancelByAccessCode", err)
		return
	}

	meeting, err := h.service.CancelByAccessCode(r.Context(), &in)
	if err != nil {
		h.writeError(w, "CancelByAccessCode", err)
		return
	}
	h.writeSuccess(w, "CancelByAccessCode", meeting)
}

func (h *MeetingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}
	h.writeSuccess(w, "Complete", meeting)
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *MeetingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *MeetingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *MeetingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/meetings", h.Create)
	router.GET("/api/v1/meetings", h.GetAll)
	router.GET("/api/v1/meetings/upcoming", h.Upcoming)
	router.GET("/api/v1/meetings/room-schedule/:room_id/:date", h.RoomSchedule)
	router.GET("/api/v1/meetings/id/:id", h.GetByID)
	router.PATCH("/api/v1/meetings/id/:id", h.Update)
	router.PATCH("/api/v1/meetings/id/:id/cancel", h.Cancel)
	router.PATCH("/api/v1/meetings/id/:id/complete", h.Complete)
	router.DELETE("/api/v1/meetings/id/:id", h.Delete)
	router.POST("/api/v1/meetings/cancel-by-code", h.CancelByAccessCode)
	router.GET("/api/v1/meetings/by-access-code/:code", h.GetByAccessCode)
}
