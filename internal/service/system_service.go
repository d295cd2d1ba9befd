package service

import (
	"database/sql"

	"github.com/fundrecords/fund-records-backend/internal/database"
	"github.com/fundrecords/fund-records-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// VersionInfo pairs the application version with the database schema version.
type VersionInfo struct {
	AppVersion    string `json:"appVersion"`
	SchemaVersion int64  `json:"schemaVersion"`
}

// CheckVersion returns application and schema version information.
func (s *SystemService) CheckVersion() (VersionInfo, error) {
	schemaVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return VersionInfo{}, err
	}

	return VersionInfo{
		AppVersion:    version.Version,
		SchemaVersion: schemaVersion,
	}, nil
}
