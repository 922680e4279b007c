// Package tui is the terminal implementation of the rendering surface:
// a Bubble Tea program with a conversation sidebar, a streaming
// transcript viewport, and an input area.
//
// The protocol core runs on its own goroutines; Surface bridges its
// rendering instructions into the Bubble Tea event loop with
// program.Send, which preserves their order.
package tui
