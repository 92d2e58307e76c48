package ui

// StreamErrMsg reports that the audio stream stopped with an error.
type StreamErrMsg struct {
	Err error
}

// StatusMsg replaces the status line.
type StatusMsg string
