package history

import "time"

// Batch is one invocation of the mover.
type Batch struct {
	ID          string       `json:"id"`
	Destination string       `json:"destination"`
	Requested   int          `json:"requested"`
	Moved       int          `json:"moved"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Files       []FileRecord `json:"files,omitempty"`
}

// FileRecord is the outcome for a single source file. An empty Error means
// the file reached Target.
type FileRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Copied bool   `json:"copied,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether every requested file was moved.
func (b Batch) Succeeded() bool {
	return b.Error == "" && b.Moved == b.Requested
}

// ShortID returns the first eight characters of the batch ID.
func (b Batch) ShortID() string {
	if len(b.ID) <= 8 {
		return b.ID
	}
	return b.ID[:8]
}
