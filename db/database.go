package db

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the process-wide handle used by the CLI. Library code takes a
// *gorm.DB explicitly.
var DB *gorm.DB

// InitDatabase opens the database at dbPath into DB, exiting on failure.
func InitDatabase(dbPath string) {
	var err error
	DB, err = Open(dbPath, gormlogger.Warn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
}

// Open connects to the SQLite database at dbPath with foreign keys enforced
// and migrates the schema.
func Open(dbPath string, level gormlogger.LogLevel) (*gorm.DB, error) {
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  true,
		},
	)

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", dbPath)
	gdb, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := gdb.AutoMigrate(&User{}, &Game{}, &Mod{}, &Modlist{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return gdb, nil
}
