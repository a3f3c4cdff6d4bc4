package cli

import (
	"context"
	"log"
	"os"
	"strconv"
)

func (a *App) Quest(ctx context.Context) error {
	category, err := GetSimpleText(a.reader, "Category (cipher, slide, synth)", os.Stdout)
	if err != nil {
		return err
	}
	difficulty, err := GetSimpleText(a.reader, "Difficulty (easy, hard)", os.Stdout)
	if err != nil {
		return err
	}
	solution, err := GetSimpleText(a.reader, "Solution", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.client.SubmitQuest(ctx, category, difficulty, solution)
	if err != nil {
		log.Printf("Submission unsuccessful: %s", err.Error())
		return err
	}
	log.Printf("Solved! Completed at %s", resp.CompletedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) Hint(ctx context.Context) error {
	category, err := GetSimpleText(a.reader, "Category", os.Stdout)
	if err != nil {
		return err
	}
	pointsText, err := GetSimpleText(a.reader, "Points to deduct", os.Stdout)
	if err != nil {
		return err
	}
	points, err := strconv.Atoi(pointsText)
	if err != nil {
		log.Printf("error: points must be a number")
		return err
	}

	resp, err := a.client.Hint(ctx, category, points)
	if err != nil {
		log.Printf("Hint unsuccessful: %s", err.Error())
		return err
	}
	log.Printf("Hint recorded, total deductions: %d", resp.HintDeductions)
	return nil
}
