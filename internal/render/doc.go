// Package render defines the capability interface the protocol core uses
// to drive the presentation layer.
//
// The core never touches a terminal, a DOM, or any other output device
// directly; it only calls the interfaces declared here. The production
// implementation lives in internal/tui; tests use the Recorder.
package render
