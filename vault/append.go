package vault

import (
	"context"
	"time"

	"github.com/kbukum/voicenotes/errors"
)

// TimestampLayout renders entry headings as MM/DD/YYYY, HH:MM:SS (24-hour).
const TimestampLayout = "01/02/2006, 15:04:05"

// FormatTimestamp formats t in its own location using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatEntry renders one transcription entry.
func FormatEntry(timestamp, text string) string {
	return "## [" + timestamp + "]\n" + text + "\n\n"
}

// AppendResult reports where an entry went.
type AppendResult struct {
	Path    string
	Created bool
}

// AppendEntry appends a timestamped entry for text to the document at path,
// creating the document when it does not exist. The append is a
// read-modify-write; callers serialize concurrent appends to one path.
func AppendEntry(ctx context.Context, store Store, path, text string, now time.Time) (AppendResult, error) {
	entry := FormatEntry(FormatTimestamp(now), text)

	info, err := store.Lookup(ctx, path)
	if err != nil {
		return AppendResult{}, err
	}

	switch info.Kind {
	case KindMissing:
		if err := store.Create(ctx, path, entry); err != nil {
			return AppendResult{}, err
		}
		return AppendResult{Path: path, Created: true}, nil
	case KindDocument:
		content, err := store.Read(ctx, path)
		if err != nil {
			return AppendResult{}, err
		}
		if err := store.Modify(ctx, path, content+entry); err != nil {
			return AppendResult{}, err
		}
		return AppendResult{Path: path}, nil
	default:
		return AppendResult{}, errors.NotAPlainDocument(path)
	}
}
