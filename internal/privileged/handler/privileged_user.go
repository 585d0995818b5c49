package handler

import (
	"net/http"

	"roombook/internal/privileged/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type PrivilegedUserHandler struct {
	service service.PrivilegedUserService
	log     *logger.Logger
}

func NewPrivilegedUserHandler(service service.PrivilegedUserService, log *logger.Logger) *PrivilegedUserHandler {
	return &PrivilegedUserHandler{
		service: service,
		log:     log,
	}
}

func (h *PrivilegedUserHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in model.PrivilegedUserCreate
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	user, err := h.service.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PrivilegedUserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", user)
}

func (h *PrivilegedUserHandler) GetByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByEmail(r.Context(), ps.ByName("email"))
	if err != nil {
		h.writeError(w, "GetByEmail", err)
		return
	}
	h.writeSuccess(w, "GetByEmail", user)
}

func (h *PrivilegedUserHandler) Check(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := sanitizer.NormalizeEmail(ps.ByName("email"))

	privileged, err := h.service.IsPrivileged(r.Context(), email)
	if err != nil {
		h.writeError(w, "Check", err)
		return
	}
	h.writeSuccess(w, "Check", model.PrivilegeCheck{Email: email, Privileged: privileged})
}

func (h *PrivilegedUserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	active, err := httputil.QueryBool(r, "active")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter := model.PrivilegedUserFilter{
		Company: r.URL.Query().Get("company"),
		Active:  active,
	}

	users, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, users, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PrivilegedUserHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PrivilegedUserUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	user, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", user)
}

func (h *PrivilegedUserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *PrivilegedUserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PrivilegedUserHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *PrivilegedUserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/privileged-users", h.Create)
	router.GET("/api/v1/privileged-users", h.GetAll)
	router.GET("/api/v1/privileged-users/id/:id", h.GetByID)
	router.PATCH("/api/v1/privileged-users/id/:id", h.Update)
	router.DELETE("/api/v1/privileged-users/id/:id", h.Delete)
	router.GET("/api/v1/privileged-users/by-email/:email", h.GetByEmail)
	router.GET("/api/v1/privileged-users/check/:email", h.Check)
}
