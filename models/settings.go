package models

// Settings represents the persisted user preferences
type Settings struct {
	SelectedDatabases []int  `json:"selected_databases"` // database codes, empty = all
	LastDirectory     string `json:"last_directory"`
	ShowHidden        bool   `json:"show_hidden"` // list low similarity matches
}

// DefaultSettings returns default application settings
func DefaultSettings() *Settings {
	return &Settings{
		SelectedDatabases: []int{},
		LastDirectory:     "",
		ShowHidden:        false,
	}
}
