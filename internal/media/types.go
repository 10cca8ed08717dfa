// Package media defines the per-request values that flow through the relay pipeline
// and the typed failures each stage reports.
package media

// Kind is the attachment category reported by the messaging platform.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// Attachment is the normalized inbound media reference.
type Attachment struct {
	Kind Kind
	// FileID is the platform's opaque file token.
	FileID string
	// FileName is the suggested name; it drives classification and the local file name.
	FileName string
	// Size is the size the platform reported, 0 when unknown.
	Size int64
}

// ResolvedSource is an attachment whose token has been resolved to a fetchable URL.
type ResolvedSource struct {
	DownloadURL string
	FileName    string
}

// LocalFile is a staged download owned by exactly one request.
type LocalFile struct {
	Path string
	// Name is the declared (original) file name, not the staged one.
	Name string
	Size int64
}

// PublishResult is the terminal artifact of a successful request.
type PublishResult struct {
	URL string
}

// Category is the publishing route chosen for a file.
type Category string

const (
	CategoryImage   Category = "image"
	CategoryGeneric Category = "generic"
)
