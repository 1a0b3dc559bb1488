package model

import "time"

// TaskModel mirrors the 'tasks' table. OwnerID references users.id and is
// indexed because every query path filters on it.
type TaskModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"index;not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000)"`
	Completed   bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
