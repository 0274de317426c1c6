package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/internxt/meet-server/internal/domain"
	"github.com/internxt/meet-server/internal/service"
	httpmw "github.com/internxt/meet-server/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	callSvc    *service.CallService
	memberSvc  *service.MemberService
	webhookSvc *service.WebhookService
}

func NewHandler(call *service.CallService, member *service.MemberService, webhook *service.WebhookService) *Handler {
	return &Handler{
		callSvc:    call,
		memberSvc:  member,
		webhookSvc: webhook,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to statuses; anything unexpected is logged
// and surfaced as an opaque 500.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
	case errors.Is(err, domain.ErrNotInRoom):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not in room"})
	case errors.Is(err, domain.ErrHostBusy):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "host already has an open room"})
	case errors.Is(err, domain.ErrAlreadyJoined):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "user already joined"})
	case errors.Is(err, domain.ErrRoomFull):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "room full"})
	case errors.Is(err, domain.ErrRoomClosed):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "room is closed"})
	case errors.Is(err, domain.ErrMeetNotAllowed):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "meet not available for this tier"})
	default:
		slog.Error("handler."+op, slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// POST /call
func (h *Handler) CreateCall(w http.ResponseWriter, r *http.Request) {
	user := httpmw.UserFromCtx(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	access, err := h.callSvc.CreateCall(r.Context(), *user)
	if err != nil {
		writeError(w, "CreateCall", err)
		return
	}

	writeJSON(w, http.StatusCreated, CallAccessResponse{
		Token:  access.Token,
		Room:   access.Room,
		UserID: access.UserID,
		AppID:  access.AppID,
	})
}

// POST /call/{id}/users/join
func (h *Handler) JoinCall(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req JoinCallRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
	}

	in := service.JoinCallInput{
		Name:      req.Name,
		LastName:  req.LastName,
		Anonymous: req.Anonymous,
	}
	if user := httpmw.UserFromCtx(r.Context()); user != nil {
		in.UserID = user.UUID
		in.Email = user.Email
		if in.Name == "" {
			in.Name = user.Name
		}
		if in.LastName == "" {
			in.LastName = user.LastName
		}
	}

	access, err := h.callSvc.JoinCall(r.Context(), roomID, in)
	if err != nil {
		writeError(w, "JoinCall", err)
		return
	}

	writeJSON(w, http.StatusOK, CallAccessResponse{
		Token:  access.Token,
		Room:   access.Room,
		UserID: access.UserID,
		AppID:  access.AppID,
	})
}

// POST /call/{id}/users/leave
func (h *Handler) LeaveCall(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	user := httpmw.UserFromCtx(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.callSvc.LeaveCall(r.Context(), roomID, user.UUID); err != nil {
		writeError(w, "LeaveCall", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// GET /call/{id}/members
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	members, err := h.memberSvc.GetMembersWithAvatars(r.Context(), roomID)
	if err != nil {
		writeError(w, "GetMembers", err)
		return
	}
	writeJSON(w, http.StatusOK, MembersResponse{Items: members})
}

// GET /call/{id}/members/count
func (h *Handler) CountMembers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	count, err := h.memberSvc.CountMembers(r.Context(), roomID)
	if err != nil {
		writeError(w, "CountMembers", err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: count})
}

// POST /webhooks/jaas
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var ev domain.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if ev.EventType == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing eventType"})
		return
	}

	if err := h.webhookSvc.HandleEvent(r.Context(), &ev); err != nil {
		// The provider decides whether to redeliver; expected races were
		// already swallowed as no-ops inside the service.
		slog.Error("handler.Webhook",
			slog.String("event", string(ev.EventType)),
			slog.String("fqn", ev.FQN),
			slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "webhook processing failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
