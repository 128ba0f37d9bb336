package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"playlistsnapshot/internal/actions"
)

func main() {
	// SPOTIFY_ID and SPOTIFY_SECRET may come from a .env file
	_ = godotenv.Load()

	app := actions.NewApp()

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
