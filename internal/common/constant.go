package common

// SessionCookieName is the cookie key that carries the opaque session token.
const SessionCookieName = "Session-Id"

// SessionMaxAgeSeconds is the Max-Age set on the session cookie (30 days).
const SessionMaxAgeSeconds = 30 * 24 * 60 * 60

// MaxSessionsPerUser bounds concurrent sessions; the oldest is evicted first.
const MaxSessionsPerUser = 3

// MaxChatMessageLength bounds the text of a single chat message, in runes.
const MaxChatMessageLength = 128

// ChatReplayLimit is how many recent messages a fresh subscription replays.
const ChatReplayLimit = 100
