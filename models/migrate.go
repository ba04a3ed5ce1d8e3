package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Tag{}, &Question{}, &Answer{}, &QuestionVote{}, &AnswerVote{},
	}
}

// Migrate creates or extends the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
