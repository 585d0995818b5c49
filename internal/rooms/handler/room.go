package handler

import (
	"net/http"

	"roombook/internal/rooms/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.RoomCreate
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	room, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", room)
}

func (h *RoomHandler) GetByAccessCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByAccessCode(r.Context(), ps.ByName("code"))
	if err != nil {
		h.writeError(w, "GetByAccessCode", err)
		return
	}
	h.writeSuccess(w, "GetByAccessCode", room)
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	available, err := httputil.QueryBool(r, "available")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter := model.RoomFilter{
		Company:   r.URL.Query().Get("company"),
		Available: available,
	}

	rooms, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	room, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", room)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *RoomHandler) Lock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RoomAccessRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Lock", err)
		return
	}

	room, err := h.service.Lock(r.Context(), req.AccessCode)
	if err != nil {
		h.writeError(w, "Lock", err)
		return
	}
	h.writeSuccess(w, "Lock", room)
}

func (h *RoomHandler) Unlock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RoomAccessRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Unlock", err)
		return
	}

	room, err := h.service.Unlock(r.Context(), req.AccessCode)
	if err != nil {
		h.writeError(w, "Unlock", err)
		return
	}
	h.writeSuccess(w, "Unlock", room)
}

func (h *RoomHandler) CheckLock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status, err := h.service.CheckLockStatus(r.Context(), ps.ByName("code"))
	if err != nil {
		h.writeError(w, "CheckLock", err)
		return
	}
	h.writeSuccess(w, "CheckLock", status)
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
	router.GET("/api/v1/rooms/by-access-code/:code", h.GetByAccessCode)
	router.POST("/api/v1/rooms/lock", h.Lock)
	router.POST("/api/v1/rooms/unlock", h.Unlock)
	router.GET("/api/v1/rooms/check-lock/:code", h.CheckLock)
}
