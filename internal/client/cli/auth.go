package cli

import (
	"context"
	"log"
	"os"
)

// Login authenticates against the server; an unknown username registers a
// new account with the given password.
func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	resp, err := a.client.Login(ctx, userName, password)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userName = resp.User.Username
	log.Printf("Logged in as %s (anonymous name: %s)", resp.User.Username, resp.User.AnonymousName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		log.Printf("Logout unsuccessful: %s", err.Error())
		return err
	}
	a.userName = ""
	log.Printf("Logged out")
	return nil
}
