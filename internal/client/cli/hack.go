package cli

import (
	"context"
	"log"
	"os"
)

func (a *App) Hack(ctx context.Context) error {
	password, err := GetSimpleText(a.reader, "Password", os.Stdout)
	if err != nil {
		return err
	}
	text, err := GetSimpleText(a.reader, "Message to publish", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.client.Hack(ctx, password, text)
	if err != nil {
		log.Printf("Hack unsuccessful: %s", err.Error())
		return err
	}
	if resp.Redirect != "" {
		log.Printf("Access granted... see %s", resp.Redirect)
		return nil
	}
	log.Printf("Public message replaced")
	return nil
}

func (a *App) Public(ctx context.Context) error {
	resp, err := a.client.PublicMessage(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Public message:", resp.Text)
	if resp.ImageURL != "" {
		printlnFn("Image:", resp.ImageURL)
	}
	if resp.Author != "" {
		printlnFn("Set by:", resp.Author)
	}
	return nil
}
