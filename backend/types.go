package backend

// Status is the transcription service's health report.
type Status struct {
	Service         string `json:"service"`
	OllamaConnected bool   `json:"ollama_connected"`
	ModelAvailable  bool   `json:"model_available"`
	IsRecording     bool   `json:"is_recording"`
	Timestamp       string `json:"timestamp"`

	// Reported by services that support wake-phrase listening.
	ListenModeEnabled   bool `json:"listen_mode_enabled,omitempty"`
	ListenModeListening bool `json:"listen_mode_listening,omitempty"`
}

// TranscriptionResult is returned by a stop-recording or fetch-last call.
type TranscriptionResult struct {
	Status        string `json:"status"`
	Transcription string `json:"transcription"`
	Timestamp     string `json:"timestamp"`
}

// configUpdate is the body of POST /config.
type configUpdate struct {
	OllamaURL string `json:"ollama_url"`
	Model     string `json:"model"`
}

// listenModeResult is the body of the listen-mode endpoints.
type listenModeResult struct {
	Status string `json:"status"`
}

// Endpoint paths.
const (
	pathStatus        = "/status"
	pathStart         = "/start-recording"
	pathStop          = "/stop-recording"
	pathTranscription = "/transcription"
	pathConfig        = "/config"
	pathListenEnable  = "/listen-mode/enable"
	pathListenDisable = "/listen-mode/disable"
)

// Messages used when the service gives no error body.
const (
	msgStartFailed     = "Failed to start recording"
	msgStopFailed      = "Failed to stop recording"
	msgNoTranscription = "No transcription available"
	msgListenEnable    = "Failed to enable listen mode"
	msgListenDisable   = "Failed to disable listen mode"
)
