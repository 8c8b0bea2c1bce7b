package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	// absent and late are declared for storage compatibility; no code
	// path writes them. Absence is inferred at query time as the lack
	// of a record for the day.
	StatusAbsent = "absent"
	StatusLate   = "late"
)

type Attendance struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendances_user_date"`
	Date     time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendances_user_date"`
	Status   string    `gorm:"column:status;type:varchar(20);not null;default:'present'"`
	MarkedAt time.Time `gorm:"column:marked_at;type:timestamptz;not null"`
	Notes    string    `gorm:"column:notes;type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	User *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// UserRef carries just enough of the owning user for admin listings.
type UserRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
}

func (UserRef) TableName() string {
	return "users"
}
