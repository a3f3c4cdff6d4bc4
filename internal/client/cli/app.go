// Package cli implements the interactive Lumen client: a small REPL over the
// typed API client for logging in, chatting, solving side quests and poking
// the hacking endpoint.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/lumenfest/lumen/internal/client/api"
	"github.com/lumenfest/lumen/internal/client/config"
)

type App struct {
	config   *config.Config
	client   *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.New(c.ServerURL),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.client.SessionID() != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.userName
	}
	return "not logged in"
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
