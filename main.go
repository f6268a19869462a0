package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/client"
	"github.com/sisu-network/txconfirm/config"
	"github.com/sisu-network/txconfirm/core"
	"github.com/sisu-network/txconfirm/database"
	"github.com/sisu-network/txconfirm/server"
)

func initialize() (*config.Config, database.Database) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./txconfirm.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// Connect DB and run migrations
	db := database.NewDb(cfg)
	err = db.Init()
	if err != nil {
		panic(err)
	}

	return cfg, db
}

func main() {
	cfg, db := initialize()
	defer db.Close()

	upstream := client.NewClient(cfg.UpstreamUrl)
	if cfg.UpstreamUrl != "" {
		go upstream.TryDial()
	} else {
		log.Warn("No upstream url configured, track updates will not be posted")
	}

	processor := core.NewProcessor(cfg, db, upstream)
	processor.Start()

	srv, err := server.NewServer(server.NewApi(processor), cfg.ServerPort)
	if err != nil {
		panic(err)
	}
	srv.Run()
}
