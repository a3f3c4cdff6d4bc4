// Package httpapi exposes the Lumen server over HTTP: a gorilla/mux router,
// three auth middleware tiers, JSON request/response handlers and the
// websocket chat stream.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/logging"
	"github.com/lumenfest/lumen/internal/protocol"
	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/metrics"
	"github.com/lumenfest/lumen/internal/server/quests"
	"github.com/lumenfest/lumen/internal/server/ratelimit"
	"github.com/lumenfest/lumen/internal/server/users"
)

type API struct {
	users   *users.Service
	chat    *chat.Service
	quests  *quests.Service
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	logger  logging.Logger

	adminUser string
	adminPass string

	upgrader websocket.Upgrader
}

func New(us *users.Service, cs *chat.Service, qs *quests.Service,
	limiter *ratelimit.Limiter, m *metrics.Metrics, logger logging.Logger,
	adminUser, adminPass string) *API {
	return &API{
		users:     us,
		chat:      cs,
		quests:    qs,
		limiter:   limiter,
		metrics:   m,
		logger:    logger.With("module", "httpapi"),
		adminUser: adminUser,
		adminPass: adminPass,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}

func profile(u *users.User) protocol.UserProfile {
	p := protocol.UserProfile{
		ID:             u.ID,
		Username:       u.Username,
		AnonymousName:  u.AnonymousName,
		RenameCounter:  u.RenameCounter,
		HintDeductions: u.HintDeductions,
		SideQuests:     questCompletions(u),
	}
	return p
}

func questCompletions(u *users.User) map[string]protocol.SideQuestCompletions {
	out := make(map[string]protocol.SideQuestCompletions, len(u.SideQuests))
	for category, state := range u.SideQuests {
		if state == nil {
			out[category] = protocol.SideQuestCompletions{}
			continue
		}
		out[category] = protocol.SideQuestCompletions{Easy: state.Easy, Hard: state.Hard}
	}
	return out
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req protocol.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, sessionID, err := a.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, sessionID)
	writeJSON(w, http.StatusOK, protocol.LoginResponse{User: profile(u)})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.users.Logout(r.Context(), sessionFromContext(r.Context()))
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	if u == nil {
		writeJSON(w, http.StatusOK, protocol.MeResponse{Authenticated: false})
		return
	}
	p := profile(u)
	writeJSON(w, http.StatusOK, protocol.MeResponse{Authenticated: true, User: &p})
}

func (a *API) handleReroll(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	name, counter, err := a.users.RerollAnonymousName(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.RerollResponse{AnonymousName: name, RenameCounter: counter})
}

func (a *API) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req protocol.SendMessageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u := userFromContext(r.Context())
	if err := a.chat.Send(r.Context(), u.ID, req.Text, req.IsAnonymous); err != nil {
		writeError(w, err)
		return
	}
	a.metrics.MessagesSent.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleQuestSubmit(w http.ResponseWriter, r *http.Request) {
	var req protocol.SubmitQuestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u := userFromContext(r.Context())
	completedAt, err := a.quests.Submit(r.Context(), u.ID, req.Category, users.Difficulty(req.Difficulty), req.Solution)
	if err != nil {
		writeError(w, err)
		return
	}
	a.metrics.QuestCompletions.WithLabelValues(req.Category, req.Difficulty).Inc()
	writeJSON(w, http.StatusOK, protocol.SubmitQuestResponse{CompletedAt: completedAt})
}

func (a *API) handleQuestHint(w http.ResponseWriter, r *http.Request) {
	var req protocol.HintRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u := userFromContext(r.Context())
	total, err := a.users.AddHintDeduction(r.Context(), u.ID, req.Points)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.HintResponse{HintDeductions: total})
}

func (a *API) handleHack(w http.ResponseWriter, r *http.Request) {
	var req protocol.HackRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u := userFromContext(r.Context())
	resp, err := a.quests.Hack(r.Context(), u.ID, req.Password, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handlePublicMessage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.quests.PublicMessage(r.Context()))
}

func (a *API) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	all := a.users.Store().All()
	resp := protocol.AdminOverviewResponse{Users: make([]protocol.AdminUser, 0, len(all))}
	for _, u := range all {
		resp.Users = append(resp.Users, protocol.AdminUser{
			ID:             u.ID,
			Username:       u.Username,
			AnonymousName:  u.AnonymousName,
			Sessions:       len(u.Sessions),
			HintDeductions: u.HintDeductions,
			SideQuests:     questCompletions(u),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
