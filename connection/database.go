package connection

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban/model"
)

// DBConnection opens the sqlite database and migrates the schema.
func DBConnection() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_PATH")
	if dsn == "" {
		dsn = "kanban.db"
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, err
	}
	if err := model.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
