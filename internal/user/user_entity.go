package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

const DefaultLeaveBalance = 20

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"`
	Department   string    `gorm:"type:varchar(100);not null;default:''"`
	LeaveBalance int       `gorm:"type:int;not null;default:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
