package main

import (
	"context"
	"log"
	"os"

	"github.com/TravisBumgarner/just-recordings/internal/buildinfo"
	"github.com/TravisBumgarner/just-recordings/internal/client/cli"
	"github.com/TravisBumgarner/just-recordings/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
