package gormdb

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Store implementa storage.Store sobre gorm (sqlite o mysql).
type Store struct {
	db *gorm.DB
}

// Open abre la base, aplica AutoMigrate y devuelve el store.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("gormdb: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormdb: underlying db: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite no soporta escrituras concurrentes
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&animalTicket{}, &animalRow{}, &vaccinationRow{}, &helplineRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gormdb: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Animals() animals.Repository           { return &animalsRepo{db: s.db} }
func (s *Store) Vaccinations() vaccinations.Repository { return &vaccinationsRepo{db: s.db} }
func (s *Store) Helplines() helplines.Repository       { return &helplinesRepo{db: s.db} }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
