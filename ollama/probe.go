// Package ollama checks a model server directly, without going through the
// transcription service.
package ollama

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/voicenotes/httpclient"
	"github.com/kbukum/voicenotes/httpclient/rest"
	"github.com/kbukum/voicenotes/version"
)

// DefaultTimeout bounds a probe when ctx has no deadline.
const DefaultTimeout = 5 * time.Second

const pathTags = "/api/tags"

// Model is one entry of the tags listing.
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// Result is the outcome of a probe.
type Result struct {
	URL            string   `json:"url"`
	Connected      bool     `json:"connected"`
	ModelAvailable bool     `json:"model_available"`
	Models         []string `json:"models,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Probe lists the models served at baseURL and reports whether model is
// among them. A connection failure is reported in the result, not returned;
// only an unusable baseURL is an error.
func Probe(ctx context.Context, baseURL, model string) (Result, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	result := Result{URL: baseURL}

	rc, err := rest.New(httpclient.Config{
		BaseURL:    baseURL,
		Headers:    map[string]string{"User-Agent": version.UserAgent()},
		TracerName: "voicenotes/ollama",
	})
	if err != nil {
		return result, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	resp, err := rest.Get[tagsResponse](ctx, rc, pathTags)
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	result.Connected = true
	for _, m := range resp.Data.Models {
		result.Models = append(result.Models, m.Name)
		if Matches(m.Name, model) {
			result.ModelAvailable = true
		}
	}
	return result, nil
}

// Matches reports whether a served model name satisfies the requested one.
// An untagged request matches the ":latest" tag.
func Matches(served, requested string) bool {
	if requested == "" {
		return false
	}
	return served == requested ||
		strings.TrimSuffix(served, ":latest") == requested ||
		served == strings.TrimSuffix(requested, ":latest")
}
