package main

import (
	"context"

	"github.com/lumenfest/lumen/internal/client/cli"
	"github.com/lumenfest/lumen/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)

}
