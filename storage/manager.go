package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"saucenao/databases"
	"saucenao/models"
)

const settingsFile = "settings.json"

// Manager handles data persistence
type Manager struct {
	dataPath string
	logger   *zap.Logger
}

// NewManager creates a storage manager rooted at dataPath. An empty path or
// one that cannot be created falls back to the current directory.
func NewManager(dataPath string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("storage")

	if dataPath == "" {
		dataPath = "."
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		logger.Warn("unable to create data directory, using current directory", zap.String("path", dataPath), zap.Error(err))
		dataPath = "."
	}

	return &Manager{
		dataPath: dataPath,
		logger:   logger,
	}
}

// DataPath returns the directory settings are stored in
func (m *Manager) DataPath() string {
	return m.dataPath
}

// SaveSettings saves the settings to disk
func (m *Manager) SaveSettings(settings *models.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	filePath := filepath.Join(m.dataPath, settingsFile)
	m.logger.Debug("saving settings", zap.String("path", filePath))

	// write then rename so a crash never leaves a truncated file behind
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// LoadSettings loads the settings from disk
func (m *Manager) LoadSettings() (*models.Settings, error) {
	filePath := filepath.Join(m.dataPath, settingsFile)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("settings file does not exist, using defaults", zap.String("path", filePath))
			return models.DefaultSettings(), nil
		}
		return nil, err
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	// normalise whatever was stored by hand or by an older version
	settings.SelectedDatabases = databases.NewFilter(settings.SelectedDatabases...).Codes()
	settings.LastDirectory = m.cleanPath(settings.LastDirectory)

	return &settings, nil
}

// cleanPath cleans and normalizes a file path
func (m *Manager) cleanPath(path string) string {
	// Remove surrounding quotes
	path = strings.Trim(path, `"'`)
	if path == "" {
		return ""
	}

	// Normalize path separators
	return filepath.Clean(path)
}
