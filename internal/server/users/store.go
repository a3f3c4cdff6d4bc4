package users

import (
	"sync"
	"time"

	"github.com/lumenfest/lumen/internal/common"
)

// Snapshot is the persisted shape of the user database: every user record
// plus the public message. It is what the storage backends load and save.
type Snapshot struct {
	Users         []*User       `json:"users"`
	PublicMessage PublicMessage `json:"publicMessage"`
}

// Store is the process-wide, in-memory user database. All mutations go
// through it; a generation counter drives the dirty tracking used by the
// snapshot loop, so persistence can skip ticks where nothing changed.
type Store struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]*User
	bySession  map[string]string // session id -> user id
	public     PublicMessage

	gen      uint64 // bumped on every mutation
	savedGen uint64 // last generation persisted
}

func NewStore() *Store {
	return &Store{
		byID:       make(map[string]*User),
		byUsername: make(map[string]*User),
		bySession:  make(map[string]string),
	}
}

// Seed replaces the store content from a loaded snapshot. Intended for
// startup only.
func (s *Store) Seed(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*User, len(snap.Users))
	s.byUsername = make(map[string]*User, len(snap.Users))
	s.bySession = make(map[string]string)

	for _, u := range snap.Users {
		c := u.clone()
		s.byID[c.ID] = c
		s.byUsername[c.Username] = c
		for _, sess := range c.Sessions {
			s.bySession[sess.ID] = c.ID
		}
	}
	s.public = snap.PublicMessage
	s.savedGen = s.gen
}

// Snapshot returns a deep copy of the store content together with the
// current generation. Pass the generation to MarkSaved after a successful
// write; if mutations happened in between, the store stays dirty.
func (s *Store) Snapshot() (*Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Users:         make([]*User, 0, len(s.byID)),
		PublicMessage: s.public,
	}
	for _, u := range s.byID {
		snap.Users = append(snap.Users, u.clone())
	}
	return snap, s.gen
}

func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen != s.savedGen
}

func (s *Store) MarkSaved(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen > s.savedGen {
		s.savedGen = gen
	}
}

// Create inserts a new user. The username must already be case-folded.
func (s *Store) Create(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := u.clone()
	s.byID[c.ID] = c
	s.byUsername[c.Username] = c
	s.gen++
}

// GetByUsername looks a user up by case-folded username.
func (s *Store) GetByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u.clone(), nil
}

func (s *Store) GetByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u.clone(), nil
}

// GetBySession resolves a session id to its user.
func (s *Store) GetBySession(sessionID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.bySession[sessionID]
	if !ok {
		return nil, common.ErrNotFound
	}
	u, ok := s.byID[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u.clone(), nil
}

// AppendSession records a fresh login and enforces the per-user session cap
// with FIFO eviction.
func (s *Store) AppendSession(userID, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return common.ErrNotFound
	}

	u.Sessions = append(u.Sessions, Session{ID: sessionID, CreatedAt: at})
	s.bySession[sessionID] = userID

	for len(u.Sessions) > common.MaxSessionsPerUser {
		evicted := u.Sessions[0]
		u.Sessions = u.Sessions[1:]
		delete(s.bySession, evicted.ID)
	}

	s.gen++
	return nil
}

// RemoveSession drops a session if present. Removing an unknown session is
// not an error.
func (s *Store) RemoveSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.bySession[sessionID]
	if !ok {
		return
	}
	delete(s.bySession, sessionID)

	if u, ok := s.byID[userID]; ok {
		kept := u.Sessions[:0]
		for _, sess := range u.Sessions {
			if sess.ID != sessionID {
				kept = append(kept, sess)
			}
		}
		u.Sessions = kept
	}
	s.gen++
}

// CompleteQuest stamps (category, difficulty) for the user if not already
// stamped: first success wins. It returns the recorded timestamp either way.
func (s *Store) CompleteQuest(userID, category string, difficulty Difficulty, at time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return time.Time{}, common.ErrNotFound
	}

	qs, ok := u.SideQuests[category]
	if !ok {
		qs = &QuestState{}
		u.SideQuests[category] = qs
	}

	slot := &qs.Easy
	if difficulty == DifficultyHard {
		slot = &qs.Hard
	}
	if *slot != nil {
		return **slot, nil
	}

	stamped := at
	*slot = &stamped
	s.gen++
	return stamped, nil
}

// AddHintDeduction increases the user's score deduction counter; the counter
// never decreases.
func (s *Store) AddHintDeduction(userID string, points int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return 0, common.ErrNotFound
	}
	u.HintDeductions += points
	s.gen++
	return u.HintDeductions, nil
}

// SetAnonymousName replaces the user's pseudonymous display name and bumps
// the reroll counter.
func (s *Store) SetAnonymousName(userID, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return 0, common.ErrNotFound
	}
	u.AnonymousName = name
	u.RenameCounter++
	s.gen++
	return u.RenameCounter, nil
}

func (s *Store) PublicMessage() PublicMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.public
}

func (s *Store) SetPublicMessage(msg PublicMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.public = msg
	s.gen++
}

// All returns a copy of every user record.
func (s *Store) All() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u.clone())
	}
	return out
}
