package users

import "time"

// Difficulty is a side-quest tier.
type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

// Categories of side quests shipped with the event site. The hacking quest is
// completed through the public-message endpoint rather than a plain answer
// submission.
const (
	QuestCipher  = "cipher"
	QuestSlide   = "slide"
	QuestSynth   = "synth"
	QuestHacking = "hacking"
)

// QuestCategories lists every known category, in display order.
var QuestCategories = []string{QuestCipher, QuestSlide, QuestSynth, QuestHacking}

// QuestState records completion timestamps for one category. A nil pointer
// means the tier is not completed. Once set, a timestamp is never cleared or
// overwritten.
type QuestState struct {
	Easy *time.Time `json:"easy,omitempty"`
	Hard *time.Time `json:"hard,omitempty"`
}

// Session is one live login. A user holds at most MaxSessionsPerUser of
// these; the oldest is evicted first.
type Session struct {
	ID        string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID             string                 `json:"id"`
	Username       string                 `json:"username"`
	PasswordHash   string                 `json:"passwordHash"`
	AnonymousName  string                 `json:"anonymousName"`
	RenameCounter  int                    `json:"renameCounter"`
	HintDeductions int                    `json:"hintDeductions"`
	Sessions       []Session              `json:"sessions"`
	SideQuests     map[string]*QuestState `json:"sideQuests"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// PublicMessage is the mutable admin banner that the hacking side quest
// targets. It lives in the user database file.
type PublicMessage struct {
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	SetBy     string    `json:"setBy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// clone returns a deep copy so callers can read a user outside the store lock.
func (u *User) clone() *User {
	c := *u
	c.Sessions = make([]Session, len(u.Sessions))
	copy(c.Sessions, u.Sessions)
	c.SideQuests = make(map[string]*QuestState, len(u.SideQuests))
	for cat, qs := range u.SideQuests {
		copied := *qs
		c.SideQuests[cat] = &copied
	}
	return &c
}
