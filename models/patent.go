package models

import "time"

// Patent lifecycle states.
const (
	PatentStatusActive  = "ACTIVE"
	PatentStatusExpired = "EXPIRED"
	PatentStatusPending = "PENDING"
)

// Patent kinds.
const (
	PatentTypeInvention = "INVENTION"
	PatentTypeUtility   = "UTILITY"
	PatentTypeDesign    = "DESIGN"
)

// Patent is the managed portfolio record. The business semantics of annuity
// scheduling live outside this service; the record is carried to give the
// permission gates something real to protect.
type Patent struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"id"`
	Name               string    `gorm:"column:name" json:"name"`
	Patentee           string    `gorm:"column:patentee" json:"patentee"`
	Country            string    `gorm:"column:country" json:"country"`
	Status             string    `gorm:"column:status;index" json:"status"`
	Type               string    `gorm:"column:type" json:"type"`
	AppNumber          string    `gorm:"column:app_number" json:"app_number"`
	PubNumber          string    `gorm:"column:pub_number" json:"pub_number"`
	AppDate            string    `gorm:"column:app_date" json:"app_date"`
	PubDate            string    `gorm:"column:pub_date" json:"pub_date"`
	Duration           string    `gorm:"column:duration" json:"duration"`
	AnnuityDate        string    `gorm:"column:annuity_date" json:"annuity_date"`
	AnnuityYear        int       `gorm:"column:annuity_year" json:"annuity_year"`
	NotificationEmails string    `gorm:"column:notification_emails" json:"notification_emails,omitempty"`
	Inventor           string    `gorm:"column:inventor" json:"inventor"`
	Abstract           string    `gorm:"column:abstract" json:"abstract,omitempty"`
	Link               string    `gorm:"column:link" json:"link,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Patent) TableName() string { return "patents" }
