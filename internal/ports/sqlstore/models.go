package sqlstore

import (
	"time"

	"president/internal/domain"
)

// User is a stored account. Guests keep an empty password hash.
type User struct {
	ID           string    `gorm:"primaryKey;column:user_id;type:varchar(36)"`
	Username     string    `gorm:"uniqueIndex;column:username;type:varchar(255);not null"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null;default:''"`
	Guest        bool      `gorm:"column:guest;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (User) TableName() string { return "users" }

// GameSettings holds one row of preferences per user.
type GameSettings struct {
	UserID       string `gorm:"primaryKey;column:user_id;type:varchar(64)"`
	Rounds       int    `gorm:"column:rounds;not null;default:5"`
	AIDifficulty string `gorm:"column:ai_difficulty;type:varchar(16);not null;default:'Medium'"`
}

func (GameSettings) TableName() string { return "game_settings" }

// GameResult is one finished match.
type GameResult struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;column:results_id"`
	MatchID    string    `gorm:"column:match_id;type:varchar(36);index"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);index;not null"`
	Rank       string    `gorm:"column:rank;type:varchar(32);not null"`
	TotalGames int       `gorm:"column:total_games;not null;default:0"`
	NumPres    int       `gorm:"column:num_pres;not null;default:0"`
	NumVPres   int       `gorm:"column:num_v_pres;not null;default:0"`
	NumMid     int       `gorm:"column:num_mid;not null;default:0"`
	NumVBum    int       `gorm:"column:num_v_bum;not null;default:0"`
	NumBum     int       `gorm:"column:num_bum;not null;default:0"`
	PlayedAt   time.Time `gorm:"column:played_at"`
}

func (GameResult) TableName() string { return "game_results" }

// Leaderboard aggregates every result of a user.
type Leaderboard struct {
	UserID     string `gorm:"primaryKey;column:user_id;type:varchar(64)"`
	Username   string `gorm:"column:username;type:varchar(255)"`
	TotalGames int    `gorm:"column:total_games;not null;default:0"`
	NumPres    int    `gorm:"column:num_pres;not null;default:0;index"`
	NumVPres   int    `gorm:"column:num_v_pres;not null;default:0"`
	NumMid     int    `gorm:"column:num_mid;not null;default:0"`
	NumVBum    int    `gorm:"column:num_v_bum;not null;default:0"`
	NumBum     int    `gorm:"column:num_bum;not null;default:0"`
}

func (Leaderboard) TableName() string { return "leaderboard" }

func (l *Leaderboard) counts() domain.TitleCounts {
	return domain.TitleCounts{
		President:     l.NumPres,
		VicePresident: l.NumVPres,
		Middle:        l.NumMid,
		ViceBum:       l.NumVBum,
		Bum:           l.NumBum,
	}
}

func (l *Leaderboard) add(c domain.TitleCounts) {
	l.NumPres += c.President
	l.NumVPres += c.VicePresident
	l.NumMid += c.Middle
	l.NumVBum += c.ViceBum
	l.NumBum += c.Bum
}
