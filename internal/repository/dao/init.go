package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Student{},
		&Election{},
		&Position{},
		&Candidate{},
		&DisplaySettings{},
		&PositionConfig{},
		&Vote{},
	)
}
