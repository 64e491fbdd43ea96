package waterfall

// Progress reporting
const (
	// DefaultProgressInterval logs progress every 10% of rows.
	DefaultProgressInterval = 10

	percentScale = 100
)

// I/O buffer sizes
const (
	inputBufferSize  = 64 * 1024
	outputBufferSize = 256 * 1024
)
