package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/James-Trimble/PlayPalace11/config"
	"github.com/James-Trimble/PlayPalace11/game"
	"github.com/James-Trimble/PlayPalace11/games/crazyeights"
	"github.com/James-Trimble/PlayPalace11/games/pig"
	"github.com/James-Trimble/PlayPalace11/games/threes"
	"github.com/James-Trimble/PlayPalace11/locale"
	"github.com/James-Trimble/PlayPalace11/logger"
	"github.com/James-Trimble/PlayPalace11/persistence"
	"github.com/James-Trimble/PlayPalace11/server"
)

func main() {
	logger.Init()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	catalog := locale.LoadDir(cfg.Server.LocalesDir)

	registry := game.NewRegistry()
	registry.Register(pig.New(catalog).Descriptor(), func(c *locale.Catalog) game.Game {
		return pig.New(c)
	})
	registry.Register(crazyeights.New(catalog).Descriptor(), func(c *locale.Catalog) game.Game {
		return crazyeights.New(c)
	})
	registry.Register(threes.New(catalog).Descriptor(), func(c *locale.Catalog) game.Game {
		return threes.New(c)
	})

	store, err := persistence.New(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to open store: %v", err)
	}
	logger.Log.Infof("Store ready (driver: %s)", cfg.Database.Driver)

	srv, err := server.NewGameServer(cfg, registry, catalog, store)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		srv.Shutdown()
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		logger.Log.Fatalf("Server failed: %v", err)
	}
}
