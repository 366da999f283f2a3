package config

import (
	"github.com/kbukum/voicenotes/validation"
)

// Settings are the user-editable plugin settings. The json names are the
// persisted keys of the data file.
type Settings struct {
	BackendURL         string `json:"backendUrl" mapstructure:"backendUrl" validate:"required,url"`
	OllamaURL          string `json:"ollamaUrl" mapstructure:"ollamaUrl" validate:"required,url"`
	ModelName          string `json:"modelName" mapstructure:"modelName" validate:"required"`
	TargetNoteName     string `json:"targetNoteName" mapstructure:"targetNoteName" validate:"required"`
	WakePhrase         string `json:"wakePhrase" mapstructure:"wakePhrase"`
	StopPhrase         string `json:"stopPhrase" mapstructure:"stopPhrase"`
	AutoStartListening bool   `json:"autoStartListening" mapstructure:"autoStartListening"`
}

// Setting keys as persisted.
const (
	KeyBackendURL         = "backendUrl"
	KeyOllamaURL          = "ollamaUrl"
	KeyModelName          = "modelName"
	KeyTargetNoteName     = "targetNoteName"
	KeyWakePhrase         = "wakePhrase"
	KeyStopPhrase         = "stopPhrase"
	KeyAutoStartListening = "autoStartListening"
)

// DefaultSettings returns the settings used for keys absent from the data file.
func DefaultSettings() Settings {
	return Settings{
		BackendURL:         "http://localhost:8765",
		OllamaURL:          "http://localhost:11434",
		ModelName:          "dimavz/whisper-tiny",
		TargetNoteName:     "Voice Notes.md",
		WakePhrase:         "computer start note",
		StopPhrase:         "computer end note",
		AutoStartListening: false,
	}
}

// defaultsByKey lists the defaults under their persisted keys.
func (s Settings) defaultsByKey() map[string]any {
	return map[string]any{
		KeyBackendURL:         s.BackendURL,
		KeyOllamaURL:          s.OllamaURL,
		KeyModelName:          s.ModelName,
		KeyTargetNoteName:     s.TargetNoteName,
		KeyWakePhrase:         s.WakePhrase,
		KeyStopPhrase:         s.StopPhrase,
		KeyAutoStartListening: s.AutoStartListening,
	}
}

// Validate checks the service URLs and the document name.
func (s Settings) Validate() error {
	return validation.Validate(s)
}
