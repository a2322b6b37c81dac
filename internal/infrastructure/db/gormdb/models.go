package gormdb

import (
	"time"

	"github.com/aircha/todo-web/internal/core/domain"
)

type userRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Nickname     string `gorm:"size:100;not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (u userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Nickname:     u.Nickname,
		CreatedAt:    u.CreatedAt,
	}
}

type todoRecord struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	UserID      int64   `gorm:"not null;index"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	IsDone      bool    `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (todoRecord) TableName() string { return "todos" }

func (t todoRecord) toDomain() domain.Todo {
	return domain.Todo{
		ID:          t.ID,
		OwnerID:     t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsDone:      t.IsDone,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
