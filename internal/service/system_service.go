package service

import (
	"database/sql"
	"fmt"
	"maps"
	"strconv"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/database"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists the optional
// behaviours enabled in this deployment, reported by the version endpoint.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: maps.Clone(features),
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

func (s *SystemService) CheckVersion() string {
	return version.Version
}

// VersionInfo reports the application version, the applied schema
// migration and the enabled features.
func (s *SystemService) VersionInfo() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	features := maps.Clone(s.features)
	if features == nil {
		features = map[string]bool{}
	}

	return model.VersionInfo{
		AppVersion: s.CheckVersion(),
		DbVersion:  strconv.FormatInt(dbVersion, 10),
		Features:   features,
	}, nil
}
