package models

import "time"

// StateEntry is one persisted client-side key/value pair.
type StateEntry struct {
	Name      string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName keeps the table name independent of the struct name.
func (StateEntry) TableName() string {
	return "client_state"
}
