// Package rest provides a JSON client built on httpclient.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "http://localhost:8765"})
//
//	// Typed GET
//	status, err := rest.Get[backend.Status](ctx, client, "/status")
//
//	// POST without a body
//	_, err = rest.Post[json.RawMessage](ctx, client, "/start-recording", nil)
//
// Failed calls return a *httpclient.Error; ErrorField reads the JSON error
// message the server sent with it.
package rest
