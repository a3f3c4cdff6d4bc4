// Package protocol defines the request, response and event types exchanged
// between the Lumen server and its clients. Both sides import this package,
// so a signature change breaks the build rather than the wire.
package protocol

import "time"

// LoginRequest authenticates an existing user or registers a new one; there
// is no separate signup call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User UserProfile `json:"user"`
}

// UserProfile is the caller-visible slice of a user record.
type UserProfile struct {
	ID             string                          `json:"id"`
	Username       string                          `json:"username"`
	AnonymousName  string                          `json:"anonymousName"`
	RenameCounter  int                             `json:"renameCounter"`
	HintDeductions int                             `json:"hintDeductions"`
	SideQuests     map[string]SideQuestCompletions `json:"sideQuests"`
}

// SideQuestCompletions reports the completion timestamps per difficulty.
// A nil entry means the tier is not completed.
type SideQuestCompletions struct {
	Easy *time.Time `json:"easy,omitempty"`
	Hard *time.Time `json:"hard,omitempty"`
}

type MeResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserProfile `json:"user,omitempty"`
}

type RerollResponse struct {
	AnonymousName string `json:"anonymousName"`
	RenameCounter int    `json:"renameCounter"`
}

type SendMessageRequest struct {
	Text        string `json:"text"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// ChatMessage is a chat log entry with display identity resolved at the time
// the payload was produced.
type ChatMessage struct {
	Text        string    `json:"text"`
	SentBy      string    `json:"sentBy"`
	DisplayName string    `json:"displayName"`
	Timestamp   time.Time `json:"timestamp"`
	IsAnonymous bool      `json:"isAnonymous"`
}

// Chat event kinds sent on the subscribe stream.
const (
	ChatEventSubscribe = "onSubscribe"
	ChatEventMessage   = "onMessage"
)

// ChatEvent is one frame of the subscribe stream. The first frame carries
// kind "onSubscribe" with the replay batch; every later frame carries kind
// "onMessage" with a single live message.
type ChatEvent struct {
	Kind     string        `json:"kind"`
	Messages []ChatMessage `json:"messages,omitempty"`
	Message  *ChatMessage  `json:"message,omitempty"`
}

type SubmitQuestRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Solution   string `json:"solution"`
}

type SubmitQuestResponse struct {
	CompletedAt time.Time `json:"completedAt"`
}

type HintRequest struct {
	Category string `json:"category"`
	Points   int    `json:"points"`
}

type HintResponse struct {
	HintDeductions int `json:"hintDeductions"`
}

type HackRequest struct {
	Password string `json:"password"`
	Text     string `json:"text"`
}

// HackResponse is empty on success. On the decoy path Redirect carries a
// location and nothing was mutated; the shape is the only way to tell the
// two apart.
type HackResponse struct {
	Redirect string `json:"redirect,omitempty"`
}

type PublicMessageResponse struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
	Author   string `json:"author,omitempty"`
}

// AdminUser is one row of the admin overview.
type AdminUser struct {
	ID             string                          `json:"id"`
	Username       string                          `json:"username"`
	AnonymousName  string                          `json:"anonymousName"`
	Sessions       int                             `json:"sessions"`
	HintDeductions int                             `json:"hintDeductions"`
	SideQuests     map[string]SideQuestCompletions `json:"sideQuests"`
}

type AdminOverviewResponse struct {
	Users []AdminUser `json:"users"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}
