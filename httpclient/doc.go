// Package httpclient provides the HTTP client used to reach the transcription
// backend, the model server and the local control daemon.
//
// The base Client handles transport concerns (base URL, default headers,
// body encoding, status classification, tracing). Subpackages add
// protocol-specific layers:
//
//   - rest: JSON client with generic typed methods
//   - sse: Server-Sent Events reader
//
// No retry, backoff or circuit breaking is applied: a failed call is
// reported to the caller once.
//
//	client, err := httpclient.New(httpclient.Config{BaseURL: "http://localhost:8765"})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/status"})
package httpclient
