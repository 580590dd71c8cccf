// Package ioutils provides file system helpers for course-mirror.
//
//	// Skip files already mirrored
//	if ioutils.FileExists(path) { ... }
//
//	// Create the directories a download will land in
//	err := ioutils.EnsureParentDir("numCSE/serien/serie01.pdf")
package ioutils
