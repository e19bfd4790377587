package model

import "path/filepath"

// Job is one unit of work: a single data file to load. A Job is owned by
// exactly one worker goroutine for its whole lifetime.
type Job struct {
	// Path is the file's location inside the source directory.
	Path string
	// Name is the base file name, reused as-is in the done directory.
	Name string
}

// NewJob builds a Job from a file path.
func NewJob(path string) Job {
	return Job{Path: path, Name: filepath.Base(path)}
}
