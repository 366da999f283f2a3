// Package recording owns the recording lifecycle: it admits start and stop
// requests against the current state, drives the transcription backend,
// appends finished transcriptions to the vault and keeps the status
// indicator and user notices in step.
//
// Every operation holds one mutex from the state check through the
// backend call to the state transition, so concurrent callers observe the
// operations one at a time. A second Start issued while the first is in
// flight waits, then finds the controller Recording and becomes a no-op.
package recording
