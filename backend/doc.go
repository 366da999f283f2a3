// Package backend is the client for the external transcription service.
//
// Every operation is a single request/response round trip. Nothing is
// retried, and no timeout applies unless Config.Timeout is set. Failures
// are returned as *errors.AppError values whose messages are safe to show
// to the user:
//
//	client, err := backend.New(backend.Config{URL: "http://localhost:8765/"}, nil)
//	if err != nil {
//	    return err
//	}
//	if err := client.StartRecording(ctx); err != nil {
//	    return err // START_FAILED, message from the service's {"error": ...} body
//	}
package backend
