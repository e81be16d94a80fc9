package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"blockfall/client"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[24;0H\n\r\033[?25h"
)

func main() {
	var (
		name     = flag.String("name", os.Getenv("USER"), "name shown on top of the board")
		seed     = flag.Uint64("seed", 0, "seed for the tetromino sequence, 0 is random")
		bag      = flag.Bool("bag", false, "draw tetrominos from a 7-bag instead of uniformly at random")
		snapshot = flag.String("snapshot", "", "write the final state of every game to this file")
		logFile  = flag.String("log", "tetris.log", "log file")
		debug    = flag.Bool("debug", false, "enable debug logs")
	)
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer f.Close()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))

	c, err := client.New(logger, &client.Options{
		Name:         *name,
		Seed:         *seed,
		Bag:          *bag,
		SnapshotPath: *snapshot,
	})
	if err != nil {
		logger.Error("unable to start client", slog.String("error", err.Error()))
		log.Fatalf("unable to start client: %v", err)
	}

	fmt.Print(hideCursor)
	c.Start()
	fmt.Print(showCursor)
	if err := c.Close(); err != nil {
		logger.Error("unable to close client", slog.String("error", err.Error()))
	}
}
