package model

import "gorm.io/gorm"

// JobApplication belongs to exactly one user; every read and mutation is
// scoped by (id, user_id).
type JobApplication struct {
	gorm.Model
	UserID   uint   `gorm:"column:user_id;not null;index"`
	Company  string `gorm:"column:company;not null"`
	Role     string `gorm:"column:role;not null"`
	Status   string `gorm:"column:status;not null;default:applied"`
	Source   string `gorm:"column:source"`
	Location string `gorm:"column:location"`
	Notes    string `gorm:"column:notes"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// StatusApplied is the lenient default for anything outside the enum.
const StatusApplied = "applied"

var allowedStatuses = map[string]struct{}{
	"applied":   {},
	"interview": {},
	"test":      {},
	"home test": {},
	"test 2":    {},
	"offer":     {},
	"accepted":  {},
	"rejected":  {},
}

// ValidStatus reports whether s is in the closed status enum.
func ValidStatus(s string) bool {
	_, ok := allowedStatuses[s]
	return ok
}
