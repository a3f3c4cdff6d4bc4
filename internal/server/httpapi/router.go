package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the full route table, including the metrics endpoint.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", a.requireAuth(a.handleLogout)).Methods(http.MethodPost)
	api.HandleFunc("/me", a.optionalAuth(a.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/profile/reroll", a.requireAuth(a.handleReroll)).Methods(http.MethodPost)

	api.HandleFunc("/chat/send", a.requireAuth(a.handleChatSend)).Methods(http.MethodPost)
	api.HandleFunc("/chat/subscribe", a.requireAuth(a.handleChatSubscribe)).Methods(http.MethodGet)

	api.HandleFunc("/quests/submit", a.requireAuth(a.handleQuestSubmit)).Methods(http.MethodPost)
	api.HandleFunc("/quests/hint", a.requireAuth(a.handleQuestHint)).Methods(http.MethodPost)
	api.HandleFunc("/hack", a.requireAuth(a.handleHack)).Methods(http.MethodPost)
	api.HandleFunc("/public-message", a.optionalAuth(a.handlePublicMessage)).Methods(http.MethodGet)

	api.HandleFunc("/admin/overview", a.basicAuth(a.handleAdminOverview)).Methods(http.MethodGet)

	r.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	return r
}
