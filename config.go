package main

import "time"

// Window, timing and audio constants for the sandbox.
const (
	defaultTPS       = 60
	stepDt           = 1.0 / defaultTPS
	flashFrames      = 8
	audioSampleRate  = 48000
	httpFetchTimeout = 20 * time.Second
	windowTitle      = "soundbox"
)
