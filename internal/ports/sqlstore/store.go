package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"president/internal/bot"
	"president/internal/log"
	"president/internal/ports"
)

// Store persists accounts, preferences and results with gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var (
	_ ports.AccountPort     = (*Store)(nil)
	_ ports.PreferencesPort = (*Store)(nil)
	_ ports.ResultsPort     = (*Store)(nil)
)

// Open connects to dsn and migrates the schema. Supported forms are
// sqlite://<path> and mysql://<go-sql-driver dsn>.
func Open(dsn string) (*Store, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableNestedTransaction: true,
		TranslateError:           true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: log.NewGormLogrus(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db)
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}, &GameSettings{}, &GameResult{}, &Leaderboard{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), nil
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", dsn)
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (ports.Account, error) {
	return s.createAccount(ctx, username, passwordHash, false)
}

func (s *Store) CreateGuest(ctx context.Context, name string) (ports.Account, error) {
	return s.createAccount(ctx, name, "", true)
}

func (s *Store) createAccount(ctx context.Context, username, hash string, guest bool) (ports.Account, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Guest:        guest,
		CreatedAt:    s.now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ports.ErrDuplicate
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ports.ErrDuplicate
	}
	if err != nil {
		return ports.Account{}, err
	}
	return toAccount(user), nil
}

func (s *Store) FindUser(ctx context.Context, username string) (ports.Account, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Account{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Account{}, err
	}
	return toAccount(user), nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toAccount(u User) ports.Account {
	return ports.Account{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Guest:        u.Guest,
		CreatedAt:    u.CreatedAt,
	}
}

func (s *Store) SavePreferences(ctx context.Context, userID string, prefs ports.Preferences) error {
	row := GameSettings{UserID: userID, Rounds: prefs.Rounds, AIDifficulty: string(prefs.Difficulty)}
	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *Store) LoadPreferences(ctx context.Context, userID string) (ports.Preferences, error) {
	var row GameSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.DefaultPreferences(), nil
	}
	if err != nil {
		return ports.Preferences{}, err
	}
	return ports.Preferences{Rounds: row.Rounds, Difficulty: bot.Difficulty(row.AIDifficulty)}, nil
}

func (s *Store) RecordResult(ctx context.Context, result ports.MatchResult) error {
	if result.UserID == "" {
		return fmt.Errorf("result has no user")
	}
	playedAt := result.PlayedAt
	if playedAt.IsZero() {
		playedAt = s.now()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := GameResult{
			MatchID:    result.MatchID,
			UserID:     result.UserID,
			Rank:       result.FinalTitle.String(),
			TotalGames: result.GamesPlayed,
			NumPres:    result.Counts.President,
			NumVPres:   result.Counts.VicePresident,
			NumMid:     result.Counts.Middle,
			NumVBum:    result.Counts.ViceBum,
			NumBum:     result.Counts.Bum,
			PlayedAt:   playedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var board Leaderboard
		err := tx.Where("user_id = ?", result.UserID).First(&board).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			board = Leaderboard{UserID: result.UserID, Username: result.UserID}
			var user User
			if err := tx.Where("user_id = ?", result.UserID).First(&user).Error; err == nil {
				board.Username = user.Username
			}
		} else if err != nil {
			return err
		}
		board.TotalGames += result.GamesPlayed
		board.add(result.Counts)
		return tx.Save(&board).Error
	})
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	q := s.db.WithContext(ctx).Order("num_pres DESC").Order("total_games DESC").Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []Leaderboard
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.LeaderboardEntry, 0, len(rows))
	for i := range rows {
		out = append(out, ports.LeaderboardEntry{
			UserID:     rows[i].UserID,
			Username:   rows[i].Username,
			TotalGames: rows[i].TotalGames,
			Counts:     rows[i].counts(),
		})
	}
	return out, nil
}
