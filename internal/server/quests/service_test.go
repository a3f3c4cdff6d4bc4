package quests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/server/users"
)

func testSecrets() Secrets {
	return Secrets{
		Decoy:       "admin",
		Easy:        "letmein",
		Hard:        "correct-horse-battery",
		RedirectURL: "/vault",
	}
}

func newTestService(t *testing.T) (*Service, *users.Service, string) {
	t.Helper()
	us := users.NewService(users.NewStore())
	user, _, err := us.Authenticate(context.Background(), "ada", "pw")
	require.NoError(t, err)

	answers := Answers{
		users.QuestCipher: {
			users.DifficultyEasy: "ROSETTA",
			users.DifficultyHard: "Vigenere",
		},
		users.QuestSynth: {
			users.DifficultyEasy: "c-major",
		},
	}
	return NewService(answers, testSecrets(), us), us, user.ID
}

func TestSubmitCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	first, err := s.Submit(ctx, userID, users.QuestCipher, users.DifficultyEasy, "ROSETTA")
	require.NoError(t, err)

	// Resubmitting keeps the original timestamp.
	second, err := s.Submit(ctx, userID, users.QuestCipher, users.DifficultyEasy, "ROSETTA")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// An incorrect answer after completion does not clear the stamp.
	_, err = s.Submit(ctx, userID, users.QuestCipher, users.DifficultyEasy, "wrong")
	assert.ErrorIs(t, err, common.ErrIncorrectAnswer)

	u, err := us.Store().GetByID(userID)
	require.NoError(t, err)
	require.NotNil(t, u.SideQuests[users.QuestCipher].Easy)
	assert.Equal(t, first, *u.SideQuests[users.QuestCipher].Easy)
}

func TestSubmitExactMatch(t *testing.T) {
	ctx := context.Background()
	s, _, userID := newTestService(t)

	// No trimming or case folding.
	_, err := s.Submit(ctx, userID, users.QuestCipher, users.DifficultyEasy, "rosetta")
	assert.ErrorIs(t, err, common.ErrIncorrectAnswer)
	_, err = s.Submit(ctx, userID, users.QuestCipher, users.DifficultyEasy, " ROSETTA ")
	assert.ErrorIs(t, err, common.ErrIncorrectAnswer)
}

func TestSubmitUnknownAndDisabled(t *testing.T) {
	ctx := context.Background()
	s, _, userID := newTestService(t)

	_, err := s.Submit(ctx, userID, "bogus", users.DifficultyEasy, "x")
	assert.ErrorIs(t, err, common.ErrUnknownQuest)

	// Known category with no configured answer for the tier.
	_, err = s.Submit(ctx, userID, users.QuestSynth, users.DifficultyHard, "x")
	assert.ErrorIs(t, err, common.ErrQuestNotEnabled)

	// Known category with no configured answers at all.
	_, err = s.Submit(ctx, userID, users.QuestSlide, users.DifficultyEasy, "x")
	assert.ErrorIs(t, err, common.ErrQuestNotEnabled)

	_, err = s.Submit(ctx, userID, users.QuestCipher, "medium", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestHackDecoy(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	resp, err := s.Hack(ctx, userID, "admin", "pwned!")
	require.NoError(t, err)
	assert.Equal(t, "/vault", resp.Redirect)

	// Nothing changed.
	assert.Empty(t, us.Store().PublicMessage().Text)
	u, err := us.Store().GetByID(userID)
	require.NoError(t, err)
	assert.Nil(t, u.SideQuests[users.QuestHacking].Easy)
	assert.Nil(t, u.SideQuests[users.QuestHacking].Hard)
}

func TestHackWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	_, err := s.Hack(ctx, userID, "nope", "pwned!")
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)
	assert.Empty(t, us.Store().PublicMessage().Text)
}

// An empty submitted password must never match, even when a secret was left
// unconfigured and is itself the empty string.
func TestHackEmptyPasswordRejected(t *testing.T) {
	ctx := context.Background()
	us := users.NewService(users.NewStore())
	user, _, err := us.Authenticate(ctx, "ada", "pw")
	require.NoError(t, err)

	secrets := testSecrets()
	secrets.Easy = ""
	s := NewService(Answers{}, secrets, us)

	_, err = s.Hack(ctx, user.ID, "", "pwned!")
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)

	got, err := us.Store().GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SideQuests[users.QuestHacking].Easy)
	assert.Empty(t, us.Store().PublicMessage().Text)
}

func TestHackEasySecret(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	resp, err := s.Hack(ctx, userID, "letmein", "the event is cancelled")
	require.NoError(t, err)
	assert.Empty(t, resp.Redirect)

	msg := us.Store().PublicMessage()
	assert.Equal(t, "the event is cancelled", msg.Text)
	assert.Empty(t, msg.ImageURL)
	assert.Equal(t, userID, msg.SetBy)

	u, err := us.Store().GetByID(userID)
	require.NoError(t, err)
	assert.NotNil(t, u.SideQuests[users.QuestHacking].Easy)
	assert.Nil(t, u.SideQuests[users.QuestHacking].Hard)
}

func TestHackEscalation(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	input := `look at <img src="https://cats.example/1.png"> this cat`

	// Easy secret with an image is rejected without any mutation.
	_, err := s.Hack(ctx, userID, "letmein", input)
	assert.ErrorIs(t, err, common.ErrIncorrectHardPassword)
	assert.Empty(t, us.Store().PublicMessage().Text)

	u, err := us.Store().GetByID(userID)
	require.NoError(t, err)
	assert.Nil(t, u.SideQuests[users.QuestHacking].Hard)

	// Hard secret with the same input succeeds.
	resp, err := s.Hack(ctx, userID, "correct-horse-battery", input)
	require.NoError(t, err)
	assert.Empty(t, resp.Redirect)

	msg := us.Store().PublicMessage()
	assert.Equal(t, "https://cats.example/1.png", msg.ImageURL)
	assert.Equal(t, "look at this cat", msg.Text, "stores text content, not the raw markup")

	u, err = us.Store().GetByID(userID)
	require.NoError(t, err)
	assert.NotNil(t, u.SideQuests[users.QuestHacking].Hard)
}

func TestHackMalformedMarkup(t *testing.T) {
	ctx := context.Background()
	s, us, userID := newTestService(t)

	// Broken markup degrades to "no image" and succeeds with the easy secret.
	_, err := s.Hack(ctx, userID, "letmein", "<div><<<img this is not < well formed")
	require.NoError(t, err)
	assert.NotEmpty(t, us.Store().PublicMessage().Text)
}

func TestPublicMessageAttribution(t *testing.T) {
	ctx := context.Background()
	s, _, userID := newTestService(t)

	_, err := s.Hack(ctx, userID, "letmein", "hello")
	require.NoError(t, err)

	resp := s.PublicMessage(ctx)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "ada", resp.Author)
}
