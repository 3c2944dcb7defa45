package main

import (
	"time"

	"github.com/worldguard/WorldGuard/bot"
	"github.com/worldguard/WorldGuard/config"
	"github.com/worldguard/WorldGuard/pkg/log"
	"github.com/worldguard/WorldGuard/pkg/worldid"
	"github.com/worldguard/WorldGuard/service"
	"github.com/worldguard/WorldGuard/webserver/controller"
	"github.com/worldguard/WorldGuard/webserver/router"
)

func main() {
	conf := config.GetConfig()
	if conf.BotToken == "" {
		log.Fatal("bot-token is required")
	}
	if conf.WorldAppID == "" {
		log.Fatal("world-app-id is required")
	}

	store := service.NewStore()
	outcomes := service.BoltOutcomeRecorder{}
	b, err := bot.New(bot.Config{
		Token:    conf.BotToken,
		Store:    store,
		Outcomes: outcomes,
		AppID:    conf.WorldAppID,
		Action:   conf.WorldAction,
		Timeout:  time.Duration(conf.VerificationTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatal("bot: %v", err)
	}
	go b.Run()
	GoBackgrounds(store)

	if err := router.Run(&controller.VerificationController{
		Verifier:  worldid.NewClient(conf.WorldAppID),
		Completer: b.Completer(),
		Store:     store,
		Action:    conf.WorldAction,
	}); err != nil {
		log.Fatal("webserver: %v", err)
	}
}
