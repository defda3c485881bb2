// Package editor defines the host surface that generated text is inserted
// into, and an in-memory Document implementing it.
//
// Offsets are rune offsets into a surface's text. The completion controller
// never locks a surface; it re-checks ActiveSurface before each insertion.
package editor
