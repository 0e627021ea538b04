package models

import "fmt"

// CaptureSource is a screen that can be recorded. Sources are fetched fresh
// every time a recording starts and never modified afterwards.
type CaptureSource struct {
	// ID is the backend specific selector handed to the capture pipeline
	ID      string `json:"id"`
	Name    string `json:"name"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Primary bool   `json:"primary"`
}

// Geometry returns the source size as WxH, or an empty string when unknown
func (c CaptureSource) Geometry() string {
	if c.Width <= 0 || c.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}
