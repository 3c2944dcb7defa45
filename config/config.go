package config

import (
	log2 "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stevenroose/gonfig"
	"github.com/worldguard/WorldGuard/common"
	"github.com/worldguard/WorldGuard/db"
	"github.com/worldguard/WorldGuard/pkg/log"
)

type Params struct {
	Address               string `id:"address" short:"a" default:"0.0.0.0:8080" desc:"Listening address of the verification webserver"`
	Config                string `id:"config" short:"c" default:"$HOME/.config/worldguard" desc:"WorldGuard configuration directory"`
	BotToken              string `id:"bot-token" desc:"Telegram bot token"`
	WorldAppID            string `id:"world-app-id" desc:"App ID from the World ID Developer Portal"`
	WorldAction           string `id:"world-action" default:"worldguard-verification" desc:"Incognito action proofs are verified against"`
	VerificationTimeoutMs int64  `id:"verification-timeout-ms" default:"180000" desc:"How long a new member has to complete verification"`
	LogLevel              string `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile               string `id:"log-file" desc:"The path of log file"`
	LogMaxDays            int64  `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor       bool   `id:"log-disable-color"`
	LogDisableTimestamp   bool   `id:"log-disable-timestamp"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "GUARD_",
	})
	if err != nil {
		if err.Error() != "unexpected word while parsing flags: '-test.v'" {
			log2.Fatal(err)
		}
	}
	// replace all dots of the filename with underlines
	params.Config = filepath.Join(
		filepath.Dir(params.Config),
		strings.ReplaceAll(filepath.Base(params.Config), ".", "_"),
	)
	// expand '~' with user home
	params.Config, err = common.HomeExpand(params.Config)
	if err != nil {
		log2.Fatal(err)
	}
	params.LogFile, err = common.HomeExpand(params.LogFile)
	if err != nil {
		log2.Fatal(err)
	}
	if strings.Contains(params.Config, "$HOME") {
		if h, err := os.UserHomeDir(); err == nil {
			params.Config = strings.ReplaceAll(params.Config, "$HOME", h)
		}
	}
	if err := os.MkdirAll(params.Config, 0700); err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor, params.LogDisableTimestamp)
	db.InitDB(params.Config)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}
