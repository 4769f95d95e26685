package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"president/internal/bot"
	"president/internal/config"
	"president/internal/log"
)

var Version string = "unknown"
var GitCommit string = "unknown"
var BuildAt string = "unknown"
var BuildBy string = "unknown"
var Name string = "president"

var ConfigPath string = ""

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("project:", Name)
		fmt.Println("version:", Version)
		fmt.Println("git commit:", GitCommit)
		fmt.Println("build at:", BuildAt)
		fmt.Println("build by:", BuildBy)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Errorf("%s: %v", Name, err)
		os.Exit(-1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = "play President against four computer players"
	app.Version = Version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "config file (yaml, json or toml)",
			Destination: &ConfigPath,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log to the console as well as the log file",
		},
	}
	app.Before = setup
	app.Commands = []*cli.Command{
		signupCommand(),
		loginCommand(),
		guestCommand(),
		logoutCommand(),
		resetPasswordCommand(),
		prefsCommand(),
		playCommand(),
		leaderboardCommand(),
	}
	return app
}

// setup loads the configuration and points the logger at the log file before any command runs.
func setup(c *cli.Context) error {
	if err := config.LoadGlobal(ConfigPath); err != nil {
		return err
	}
	cfg := config.Get()
	log.Setup(log.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: c.Bool("verbose"),
	})
	log.Debugf("config loaded from %q: database=%s rounds=%d difficulty=%s", ConfigPath, cfg.Database, cfg.Rounds, cfg.Difficulty)
	if cfg.BotIdentities != "" {
		if err := bot.LoadIdentities(cfg.BotIdentities); err != nil {
			log.Warnf("bot identities not loaded from %s: %v", cfg.BotIdentities, err)
		}
	}
	return nil
}
