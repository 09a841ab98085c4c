package models

import "time"

// EmailLog records one outbound notification attempt for a patent.
type EmailLog struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	PatentName string    `gorm:"column:patent_name" json:"patent_name"`
	Recipient  string    `gorm:"column:recipient" json:"recipient"`
	Subject    string    `gorm:"column:subject" json:"subject"`
	Status     string    `gorm:"column:status" json:"status"`
	ErrorMsg   string    `gorm:"column:error_msg" json:"error_msg,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (EmailLog) TableName() string { return "email_logs" }

// EmailLog status values.
const (
	EmailStatusSuccess = "Success"
	EmailStatusFailed  = "Failed"
)
