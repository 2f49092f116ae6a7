package models

import "time"

// UserLoginLog records login attempts, successful or not, for auditing.
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"` // 0 when the account lookup failed
	Identifier string    `gorm:"index;not null" json:"identifier"` // email or phone used to log in
	Status     string    `gorm:"index;not null" json:"status"`
	FailReason string    `gorm:"index" json:"fail_reason"`
	ClientIP   string    `gorm:"type:varchar(64);index" json:"client_ip"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	RequestID  string    `gorm:"type:varchar(64);index" json:"request_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
