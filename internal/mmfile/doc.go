//go:build unix

// Package mmfile provides platform-specific helpers for memory-mapping ROM
// images and patch containers.
package mmfile
