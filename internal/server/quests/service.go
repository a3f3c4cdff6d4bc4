// Package quests validates side-quest answer submissions and implements the
// deliberately breakable public-message "hacking" endpoint.
package quests

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/protocol"
	"github.com/lumenfest/lumen/internal/server/users"
)

// Answers maps category -> difficulty -> expected answer. Categories or
// tiers absent from the map are not yet enabled, which is distinct from
// being wrong. Comparison is exact and case-sensitive; no trimming.
type Answers map[string]map[users.Difficulty]string

// Secrets configures the hacking endpoint. Decoy is a red herring that
// produces a redirect instead of an error or a mutation; Easy is the
// findable password; Hard is the environment-supplied secret that unlocks
// image injection.
type Secrets struct {
	Decoy       string
	Easy        string
	Hard        string
	RedirectURL string
}

type Service struct {
	answers Answers
	secrets Secrets
	users   *users.Service
}

func NewService(answers Answers, secrets Secrets, us *users.Service) *Service {
	return &Service{answers: answers, secrets: secrets, users: us}
}

// Submit checks a single answer. A correct answer stamps the completion
// timestamp once; re-submitting after completion is a no-op success, and an
// incorrect answer after completion changes nothing.
func (s *Service) Submit(ctx context.Context, userID, category string, difficulty users.Difficulty, solution string) (time.Time, error) {
	if difficulty != users.DifficultyEasy && difficulty != users.DifficultyHard {
		return time.Time{}, fmt.Errorf("%w: unknown difficulty %q", common.ErrValidation, difficulty)
	}

	tiers, ok := s.answers[category]
	if !ok {
		if _, known := knownCategory(category); !known {
			return time.Time{}, common.ErrUnknownQuest
		}
		return time.Time{}, common.ErrQuestNotEnabled
	}

	expected, ok := tiers[difficulty]
	if !ok {
		return time.Time{}, common.ErrQuestNotEnabled
	}

	if solution != expected {
		return time.Time{}, common.ErrIncorrectAnswer
	}

	return s.users.CompleteQuest(ctx, userID, category, difficulty)
}

func knownCategory(category string) (string, bool) {
	for _, c := range users.QuestCategories {
		if c == category {
			return c, true
		}
	}
	return "", false
}

// Hack is the public-message mutation puzzle. Outcomes, in order:
//
//   - decoy password: a redirect payload, no error, no state change;
//   - neither secret: IncorrectPassword;
//   - a valid secret with plain text: the easy hacking quest is stamped and
//     the text becomes the public message;
//   - the easy secret with an embedded image: IncorrectHardPassword, no
//     state change;
//   - the hard secret with an embedded image: the hard hacking quest is
//     stamped and the message stores the extracted image URL plus the
//     markup's text content.
func (s *Service) Hack(ctx context.Context, userID, password, text string) (*protocol.HackResponse, error) {
	// An unconfigured secret must never become a matchable credential, so an
	// empty submission is rejected before any comparison.
	if password == "" {
		return nil, common.ErrIncorrectPassword
	}

	if password == s.secrets.Decoy {
		return &protocol.HackResponse{Redirect: s.secrets.RedirectURL}, nil
	}

	if password != s.secrets.Easy && password != s.secrets.Hard {
		return nil, common.ErrIncorrectPassword
	}

	imageURL, textContent := ExtractImage(text)

	if imageURL == "" {
		if _, err := s.users.CompleteQuest(ctx, userID, users.QuestHacking, users.DifficultyEasy); err != nil {
			return nil, err
		}
		s.users.Store().SetPublicMessage(users.PublicMessage{
			Text:      text,
			SetBy:     userID,
			UpdatedAt: time.Now(),
		})
		return &protocol.HackResponse{}, nil
	}

	if password != s.secrets.Hard {
		return nil, common.ErrIncorrectHardPassword
	}

	if _, err := s.users.CompleteQuest(ctx, userID, users.QuestHacking, users.DifficultyHard); err != nil {
		return nil, err
	}
	s.users.Store().SetPublicMessage(users.PublicMessage{
		Text:      textContent,
		ImageURL:  imageURL,
		SetBy:     userID,
		UpdatedAt: time.Now(),
	})
	return &protocol.HackResponse{}, nil
}

// PublicMessage renders the current banner with attribution resolved at read
// time.
func (s *Service) PublicMessage(ctx context.Context) protocol.PublicMessageResponse {
	msg := s.users.Store().PublicMessage()
	resp := protocol.PublicMessageResponse{
		Text:     msg.Text,
		ImageURL: msg.ImageURL,
	}
	if msg.SetBy != "" {
		resp.Author = s.users.DisplayName(msg.SetBy, false)
	}
	return resp
}
