package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"president/internal/app"
	"president/internal/app/accounts"
	"president/internal/bot"
	"president/internal/config"
	"president/internal/log"
	"president/internal/ports"
	"president/internal/ports/sqlstore"
	"president/internal/ports/terminal"
)

// env is what every command needs: the store and the services built on it.
type env struct {
	cfg      *config.Config
	store    *sqlstore.Store
	accounts *accounts.Service
	sessions *app.SessionService
}

func openEnv() (*env, error) {
	cfg := config.Get()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	store, err := sqlstore.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:      cfg,
		store:    store,
		accounts: accounts.NewService(store, store, rand.New(rand.NewSource(time.Now().UnixNano()))),
		sessions: app.NewSessionService(cfg.SessionSecret, cfg.SessionTTL()),
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		log.Warnf("close store: %v", err)
	}
}

// withEnv opens the store around a command action.
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		return action(c, e)
	}
}

// startSession issues a token for account and stores it in the session file.
func (e *env) startSession(account ports.Account) error {
	token, err := e.sessions.Issue(account.ID, account.Username, account.Guest)
	if err != nil {
		return err
	}
	return saveSession(e.cfg.SessionFile, token)
}

// currentSession returns the claims of the stored token, or an error asking to log in.
func (e *env) currentSession() (*app.SessionClaims, error) {
	token, err := loadSession(e.cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("not logged in, run login or guest first: %w", err)
	}
	claims, err := e.sessions.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("session expired, log in again: %w", err)
	}
	return claims, nil
}

// seedPreferences stores the configured defaults for a new account. The
// difficulty was checked when the configuration loaded.
func (e *env) seedPreferences(ctx context.Context, userID string) {
	difficulty, _ := bot.ParseDifficulty(e.cfg.Difficulty)
	if _, err := e.accounts.SavePreferences(ctx, userID, e.cfg.Rounds, difficulty); err != nil {
		log.Warnf("seed preferences for %s: %v", userID, err)
	}
}

func saveSession(path, token string) error {
	return os.WriteFile(path, []byte(token+"\n"), 0600)
}

func loadSession(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("empty session file")
	}
	return token, nil
}

// promptValue returns the flag value, asking interactively when it was not given.
func promptValue(c *cli.Context, flag, text string, secret bool) (string, error) {
	if v := c.String(flag); v != "" {
		return v, nil
	}
	input := pterm.DefaultInteractiveTextInput.WithDefaultText(text)
	if secret {
		input = input.WithMask("*")
	}
	return input.Show()
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
	}
}

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create an account and log in",
		Flags: credentialFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			username, err := promptValue(c, "username", "Username", false)
			if err != nil {
				return err
			}
			password, err := promptValue(c, "password", "Password", true)
			if err != nil {
				return err
			}
			account, err := e.accounts.SignUp(c.Context, username, password)
			if err != nil {
				return err
			}
			e.seedPreferences(c.Context, account.ID)
			if err := e.startSession(account); err != nil {
				return err
			}
			log.Infof("account %s created (%s)", account.Username, account.ID)
			pterm.Success.Printfln("Welcome, %s!", account.Username)
			return nil
		}),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in with a password account",
		Flags: credentialFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			username, err := promptValue(c, "username", "Username", false)
			if err != nil {
				return err
			}
			password, err := promptValue(c, "password", "Password", true)
			if err != nil {
				return err
			}
			account, err := e.accounts.Login(c.Context, username, password)
			if err != nil {
				return err
			}
			if err := e.startSession(account); err != nil {
				return err
			}
			log.Infof("account %s logged in", account.Username)
			pterm.Success.Printfln("Logged in as %s", account.Username)
			return nil
		}),
	}
}

func guestCommand() *cli.Command {
	return &cli.Command{
		Name:  "guest",
		Usage: "play as a guest; a name is generated when none is given",
		Flags: []cli.Flag{&cli.StringFlag{Name: "name", Aliases: []string{"n"}}},
		Action: withEnv(func(c *cli.Context, e *env) error {
			account, err := e.accounts.PlayAsGuest(c.Context, c.String("name"))
			if err != nil {
				return err
			}
			e.seedPreferences(c.Context, account.ID)
			if err := e.startSession(account); err != nil {
				return err
			}
			log.Infof("guest %s created (%s)", account.Username, account.ID)
			pterm.Success.Printfln("Playing as guest %s", account.Username)
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session",
		Action: func(c *cli.Context) error {
			err := os.Remove(config.Get().SessionFile)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			pterm.Info.Println("Logged out")
			return nil
		},
	}
}

func resetPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset-password",
		Usage: "set a new password for an account",
		Flags: append(credentialFlags(), &cli.StringFlag{Name: "confirm"}),
		Action: withEnv(func(c *cli.Context, e *env) error {
			username, err := promptValue(c, "username", "Username", false)
			if err != nil {
				return err
			}
			password, err := promptValue(c, "password", "New password", true)
			if err != nil {
				return err
			}
			confirm, err := promptValue(c, "confirm", "Confirm password", true)
			if err != nil {
				return err
			}
			if err := e.accounts.ResetPassword(c.Context, username, password, confirm); err != nil {
				log.Debugf("password reset for %s refused: %v", username, err)
				return err
			}
			pterm.Success.Println("Password updated, log in with the new password")
			return nil
		}),
	}
}

func prefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "show or change the rounds and AI difficulty of your matches",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rounds", Aliases: []string{"r"}},
			&cli.StringFlag{Name: "difficulty", Aliases: []string{"d"}, Usage: "Easy, Medium or Hard"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			claims, err := e.currentSession()
			if err != nil {
				return err
			}
			prefs, err := e.accounts.LoadPreferences(c.Context, claims.Subject)
			if err != nil {
				return err
			}
			if c.IsSet("rounds") || c.IsSet("difficulty") {
				rounds, difficulty := prefs.Rounds, prefs.Difficulty
				if c.IsSet("rounds") {
					rounds = c.Int("rounds")
				}
				if c.IsSet("difficulty") {
					if difficulty, err = bot.ParseDifficulty(c.String("difficulty")); err != nil {
						return err
					}
				}
				if prefs, err = e.accounts.SavePreferences(c.Context, claims.Subject, rounds, difficulty); err != nil {
					return err
				}
				pterm.Success.Println("Preferences saved")
			}
			pterm.Info.Printfln("%s: %d rounds, %s AI", claims.Username, prefs.Rounds, prefs.Difficulty)
			return nil
		}),
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a match with your saved preferences",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rounds", Aliases: []string{"r"}, Usage: "override the saved rounds"},
			&cli.StringFlag{Name: "difficulty", Aliases: []string{"d"}, Usage: "override the saved difficulty"},
			&cli.BoolFlag{Name: "plain", Usage: "read moves line by line instead of the interactive prompt"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			claims, err := e.currentSession()
			if err != nil {
				return err
			}
			prefs, err := e.accounts.LoadPreferences(c.Context, claims.Subject)
			if err != nil {
				return err
			}
			if c.IsSet("rounds") {
				prefs.Rounds = accounts.ClampRounds(c.Int("rounds"))
			}
			if c.IsSet("difficulty") {
				if prefs.Difficulty, err = bot.ParseDifficulty(c.String("difficulty")); err != nil {
					return err
				}
			}

			ctrl := app.NewController(app.Options{
				UserID: claims.Subject,
				Logger: log.Default.WithField("user", claims.Username),
			})
			if err := ctrl.Configure(prefs.Rounds, prefs.Difficulty); err != nil {
				return err
			}

			var prompt terminal.Prompter = terminal.InteractivePrompter{}
			if c.Bool("plain") {
				prompt = terminal.NewLinePrompter(c.App.Reader, c.App.Writer)
			}
			game := terminal.NewGame(ctrl, prompt, terminal.NewRenderer(c.App.Writer), terminal.Options{
				BotDelay: e.cfg.BotDelay(),
				Results:  e.store,
				Logger:   log.Default,
				Spinner:  !c.Bool("plain"),
			})

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()
			_, err = game.Run(ctx)
			if errors.Is(err, terminal.ErrAbandoned) || errors.Is(err, context.Canceled) {
				pterm.Info.Println("Match abandoned, nothing recorded.")
				return nil
			}
			return err
		}),
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "show the players with the most presidencies",
		Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10}},
		Action: withEnv(func(c *cli.Context, e *env) error {
			entries, err := e.store.Leaderboard(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			return terminal.NewRenderer(c.App.Writer).Leaderboard(entries)
		}),
	}
}
