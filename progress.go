package webtab

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types, in the order a request emits them.
const (
	ProgressRequestStarted ProgressType = iota
	ProgressChunkDone
	ProgressRequestDone
)

// ProgressEvent reports progress while a batch is processed.
type ProgressEvent struct {
	Type ProgressType

	// URL of the request being processed.
	URL string

	// Request is the 0-based position of the request in the batch;
	// Requests is the batch size.
	Request  int
	Requests int

	// Chunk is the 1-based number of the chunk just extracted;
	// Chunks is the number of chunks for the request.
	Chunk  int
	Chunks int

	// Result is set on ProgressRequestDone.
	Result *Result
}

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)
