package main

// Positional argument layout
const (
	argInput = iota
	argWidth
	argHeight
	argOffset
	argRange
	argOutput
	requiredArgs
)

// Number parsing
const (
	floatBits = 64
)

const progName = "wav2waterfall"
