package plugin

import (
	"context"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/httpclient/rest"
)

// BackendState summarizes a connection test.
type BackendState string

const (
	BackendRunning       BackendState = "running"
	BackendNotResponding BackendState = "not_responding"
	BackendUnreachable   BackendState = "unreachable"
)

// ConnectionReport is the result of testing the backend connection.
type ConnectionReport struct {
	BackendURL      string       `json:"backend_url"`
	Backend         BackendState `json:"backend"`
	OllamaConnected bool         `json:"ollama_connected"`
	ModelAvailable  bool         `json:"model_available"`
	IsRecording     bool         `json:"is_recording"`
	Error           string       `json:"error,omitempty"`
}

// Lines renders the report as the settings screen shows it.
func (r ConnectionReport) Lines() []string {
	switch r.Backend {
	case BackendRunning:
		lines := []string{"✓ Backend service is running"}
		if r.OllamaConnected {
			lines = append(lines, "✓ Ollama is connected")
		} else {
			lines = append(lines, "✗ Ollama is not connected")
		}
		if r.ModelAvailable {
			lines = append(lines, "✓ Model is available")
		} else {
			lines = append(lines, "✗ Model not found")
		}
		return lines
	case BackendNotResponding:
		return []string{"✗ Backend service is not responding"}
	default:
		return []string{"✗ Cannot connect to backend service", "Make sure the backend service is running"}
	}
}

// CheckConnection tests client's backend. Transport failures, timeouts and
// an unreadable status body report the backend unreachable. Error statuses
// report it not responding.
func CheckConnection(ctx context.Context, client *backend.Client) ConnectionReport {
	report := ConnectionReport{BackendURL: client.BaseURL()}
	status, err := client.GetStatus(ctx)
	if err != nil {
		report.Error = errors.Message(err)
		if rest.IsConnection(err) || rest.IsTimeout(err) || rest.IsDecode(err) {
			report.Backend = BackendUnreachable
		} else {
			report.Backend = BackendNotResponding
		}
		return report
	}
	report.Backend = BackendRunning
	report.OllamaConnected = status.OllamaConnected
	report.ModelAvailable = status.ModelAvailable
	report.IsRecording = status.IsRecording
	return report
}
