package relay

import "fmt"

// Stage is a step of the per-request status lifecycle.
type Stage int

const (
	StageProcessing Stage = iota
	StageDownloading
	StageUploading
	StageSucceeded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageProcessing:
		return "processing"
	case StageDownloading:
		return "downloading"
	case StageUploading:
		return "uploading"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

const (
	textProcessing  = "⏳ Processing your media file..."
	textDownloading = "⏳ Downloading your file..."
	textUploading   = "⏳ Uploading to Telegraph..."
	textSucceeded   = "✅ Your media has been uploaded to Telegraph!\n\n%s"
	textFailed      = "❌ Sorry, an error occurred while processing your media.\n\nError: %s"
	textInvalid     = "Sorry, I could not process this file."
)

// Status is what the user currently sees for a request.
type Status struct {
	Stage  Stage
	URL    string
	Reason string
	// Invalid marks a rejected descriptor; it renders without the error prefix.
	Invalid bool
}

// Terminal reports whether no further status follows.
func (s Status) Terminal() bool {
	return s.Stage == StageSucceeded || s.Stage == StageFailed
}

// Preview reports whether the message should show a link preview.
func (s Status) Preview() bool {
	return s.Stage == StageSucceeded
}

// Text renders the user-visible message.
func (s Status) Text() string {
	switch s.Stage {
	case StageProcessing:
		return textProcessing
	case StageDownloading:
		return textDownloading
	case StageUploading:
		return textUploading
	case StageSucceeded:
		return fmt.Sprintf(textSucceeded, s.URL)
	default:
		if s.Invalid {
			return textInvalid
		}
		return fmt.Sprintf(textFailed, s.Reason)
	}
}
