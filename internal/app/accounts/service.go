package accounts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"president/internal/bot"
	"president/internal/ports"
)

// MinPasswordLength applies to password resets.
const MinPasswordLength = 8

var (
	ErrNotConfigured      = errors.New("accounts service not configured")
	ErrInvalidUsername    = errors.New("invalid username format: use only letters, numbers, and underscores")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrGuestNameTaken     = errors.New("guest name already exists")
	ErrEmptyPassword      = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownUser        = errors.New("username not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSamePassword       = errors.New("password is the same as before")
	ErrPasswordTooShort   = fmt.Errorf("password is too short: it must be at least %d characters long", MinPasswordLength)
	ErrGuestAccount       = errors.New("guest accounts have no password")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service implements sign up, login, guest play, password reset and game preferences.
type Service struct {
	accounts ports.AccountPort
	prefs    ports.PreferencesPort
	profiles ports.ProfilePort
	rng      *rand.Rand
	hashCost int
}

// Option customizes a Service.
type Option func(*Service)

// WithProfiles enables profile updates during onboarding.
func WithProfiles(p ports.ProfilePort) Option {
	return func(s *Service) { s.profiles = p }
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// NewService constructs an accounts service. accounts may be nil when only preferences
// and onboarding are used; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, prefs ports.PreferencesPort, rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		accounts: accounts,
		prefs:    prefs,
		rng:      rng,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates a password account.
func (s *Service) SignUp(ctx context.Context, username, password string) (ports.Account, error) {
	if s.accounts == nil {
		return ports.Account{}, ErrNotConfigured
	}
	if !usernamePattern.MatchString(username) {
		return ports.Account{}, ErrInvalidUsername
	}
	if password == "" {
		return ports.Account{}, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return ports.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}
	acc, err := s.accounts.CreateUser(ctx, username, string(hash))
	if errors.Is(err, ports.ErrDuplicate) {
		return ports.Account{}, ErrUsernameTaken
	}
	if err != nil {
		return ports.Account{}, fmt.Errorf("failed to create user: %w", err)
	}
	return acc, nil
}

// Login checks a username and password.
func (s *Service) Login(ctx context.Context, username, password string) (ports.Account, error) {
	if s.accounts == nil {
		return ports.Account{}, ErrNotConfigured
	}
	acc, err := s.accounts.FindUser(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return ports.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return ports.Account{}, fmt.Errorf("failed to find user: %w", err)
	}
	if acc.Guest || acc.PasswordHash == "" {
		return ports.Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return ports.Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// PlayAsGuest creates a guest account. An empty name gets a generated one.
func (s *Service) PlayAsGuest(ctx context.Context, name string) (ports.Account, error) {
	if s.accounts == nil {
		return ports.Account{}, ErrNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.generateFriendlyName()
	}
	acc, err := s.accounts.CreateGuest(ctx, name)
	if errors.Is(err, ports.ErrDuplicate) {
		return ports.Account{}, ErrGuestNameTaken
	}
	if err != nil {
		return ports.Account{}, fmt.Errorf("failed to create guest: %w", err)
	}
	return acc, nil
}

// ResetPassword replaces a user's password after the new one is confirmed.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword, confirm string) error {
	if s.accounts == nil {
		return ErrNotConfigured
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	acc, err := s.accounts.FindUser(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrUnknownUser
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if acc.Guest {
		return ErrGuestAccount
	}
	if acc.PasswordHash != "" && bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(newPassword)) == nil {
		return ErrSamePassword
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, acc.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SavePreferences stores settings for userID. Rounds are clamped to the playable range.
func (s *Service) SavePreferences(ctx context.Context, userID string, rounds int, difficulty bot.Difficulty) (ports.Preferences, error) {
	if s.prefs == nil {
		return ports.Preferences{}, ErrNotConfigured
	}
	if !difficulty.Valid() {
		return ports.Preferences{}, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	prefs := ports.Preferences{Rounds: ClampRounds(rounds), Difficulty: difficulty}
	if err := s.prefs.SavePreferences(ctx, userID, prefs); err != nil {
		return ports.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// LoadPreferences returns the stored settings or the defaults.
func (s *Service) LoadPreferences(ctx context.Context, userID string) (ports.Preferences, error) {
	if s.prefs == nil {
		return ports.DefaultPreferences(), nil
	}
	prefs, err := s.prefs.LoadPreferences(ctx, userID)
	if err != nil {
		return ports.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	prefs.Rounds = ClampRounds(prefs.Rounds)
	if !prefs.Difficulty.Valid() {
		prefs.Difficulty = bot.DefaultDifficulty
	}
	return prefs, nil
}

// OnboardNewUser gives a freshly created external account a friendly name and default preferences.
// Side effects: updates the account profile and stores preferences.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.prefs == nil {
		return Result{}, ErrNotConfigured
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if s.profiles != nil {
		if err := s.profiles.UpdateProfile(ctx, userID, "", result.DisplayName); err != nil {
			// Profile updates are best-effort; preferences are needed to start a match.
			result.ProfileUpdateErr = err
		}
	}

	if err := s.prefs.SavePreferences(ctx, userID, ports.DefaultPreferences()); err != nil {
		return result, fmt.Errorf("failed to store default preferences: %w", err)
	}
	return result, nil
}

// ClampRounds bounds rounds to the range a match accepts.
func ClampRounds(rounds int) int {
	switch {
	case rounds < 1:
		return 1
	case rounds > 50:
		return 50
	default:
		return rounds
	}
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
