package cli

import (
	"context"
	"log"
)

// Me prints the caller's profile: identity, quest completions and hint
// deductions.
func (a *App) Me(ctx context.Context) error {
	me, err := a.client.Me(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if !me.Authenticated {
		printlnFn("Not logged in")
		return nil
	}

	printlnFn("Username:       ", me.User.Username)
	printlnFn("Anonymous name: ", me.User.AnonymousName)
	printlnFn("Renames:        ", me.User.RenameCounter)
	printlnFn("Hint deductions:", me.User.HintDeductions)
	for category, state := range me.User.SideQuests {
		easy, hard := "-", "-"
		if state.Easy != nil {
			easy = state.Easy.Format("2006-01-02 15:04")
		}
		if state.Hard != nil {
			hard = state.Hard.Format("2006-01-02 15:04")
		}
		printlnFn("  "+category+": easy", easy, "hard", hard)
	}
	return nil
}

func (a *App) Reroll(ctx context.Context) error {
	resp, err := a.client.Reroll(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	log.Printf("New anonymous name: %s (reroll #%d)", resp.AnonymousName, resp.RenameCounter)
	return nil
}
