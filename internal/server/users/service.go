package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenfest/lumen/internal/common"
)

// Service owns authentication and per-user state. Login doubles as
// registration: an unknown username is registered on the spot, so the site
// has no separate signup step.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *Store {
	return s.store
}

func emptyQuestState() map[string]*QuestState {
	m := make(map[string]*QuestState, len(QuestCategories))
	for _, cat := range QuestCategories {
		m[cat] = &QuestState{}
	}
	return m
}

// Authenticate verifies the password for an existing username or registers a
// new user, then creates a session. The returned session id goes into the
// Session-Id cookie.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	user, err := s.store.GetByUsername(username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, "", common.ErrIncorrectPassword
		}
	case errors.Is(err, common.ErrNotFound):
		user, err = s.register(username, password)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("user lookup: %w", err)
	}

	sessionID, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, "", fmt.Errorf("session id: %w", err)
	}
	if err := s.store.AppendSession(user.ID, sessionID, time.Now()); err != nil {
		return nil, "", fmt.Errorf("session create: %w", err)
	}

	user, err = s.store.GetByID(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("user reload: %w", err)
	}
	return user, sessionID, nil
}

func (s *Service) register(username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}

	user := &User{
		ID:            uuid.NewString(),
		Username:      username,
		PasswordHash:  string(hash),
		AnonymousName: NewAnonymousName(),
		SideQuests:    emptyQuestState(),
		CreatedAt:     time.Now(),
	}
	s.store.Create(user)
	return user, nil
}

// ResolveSession maps a session id to its user. An empty id means the caller
// presented no credentials at all; a non-empty id with no owner means the
// session was pruned or the user is gone.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*User, error) {
	if sessionID == "" {
		return nil, common.ErrUnauthorized
	}
	user, err := s.store.GetBySession(sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) {
	s.store.RemoveSession(sessionID)
}

// CompleteQuest stamps a completion time exactly once per (category, tier).
func (s *Service) CompleteQuest(ctx context.Context, userID, category string, difficulty Difficulty) (time.Time, error) {
	if _, known := knownCategory(category); !known {
		return time.Time{}, common.ErrUnknownQuest
	}
	stamped, err := s.store.CompleteQuest(userID, category, difficulty, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("quest stamp: %w", err)
	}
	return stamped, nil
}

func knownCategory(category string) (string, bool) {
	for _, c := range QuestCategories {
		if c == category {
			return c, true
		}
	}
	return "", false
}

// AddHintDeduction records a score penalty for peeking at a hint.
func (s *Service) AddHintDeduction(ctx context.Context, userID string, points int) (int, error) {
	if points <= 0 {
		return 0, fmt.Errorf("%w: points must be positive", common.ErrValidation)
	}
	total, err := s.store.AddHintDeduction(userID, points)
	if err != nil {
		return 0, fmt.Errorf("hint deduction: %w", err)
	}
	return total, nil
}

// RerollAnonymousName assigns a fresh pseudonym and returns it with the new
// reroll count.
func (s *Service) RerollAnonymousName(ctx context.Context, userID string) (string, int, error) {
	name := NewAnonymousName()
	counter, err := s.store.SetAnonymousName(userID, name)
	if err != nil {
		return "", 0, fmt.Errorf("reroll: %w", err)
	}
	return name, counter, nil
}

// DisplayName resolves the name shown for a message: the sender's current
// anonymous name when the message was sent anonymously, otherwise their
// username. Resolution happens at read time, so a reroll retroactively
// changes how old anonymous messages are attributed.
func (s *Service) DisplayName(userID string, anonymous bool) string {
	u, err := s.store.GetByID(userID)
	if err != nil {
		return "unknown"
	}
	if anonymous {
		return u.AnonymousName
	}
	return u.Username
}
