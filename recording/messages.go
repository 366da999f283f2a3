package recording

// Status indicator texts.
const (
	TextReady       = "🎤 Ready"
	TextRecording   = "🔴 Recording..."
	TextProcessing  = "⏳ Processing..."
	TextTranscribed = "✓ Transcribed"
	TextFailed      = "✗ Failed"
	TextError       = "✗ Error"
)

// Notice texts. The "...: " prefixes are followed by an error message.
const (
	NoticeAlreadyRecording = "Already recording"
	NoticeNotRecording     = "Not currently recording"
	NoticeStarted          = "🎤 Recording started - speak now"
	NoticeStartFailed      = "Failed to start recording: "
	NoticeSaved            = "✓ Voice note saved"
	NoticeEmpty            = "Transcription failed"
	NoticeTranscribeFailed = "Failed to transcribe: "
	NoticeSaveFailed       = "Failed to save transcription: "
	NoticeCreated          = "Created new voice notes file: "
	NoticeInserted         = "✓ Last transcription inserted"
)
