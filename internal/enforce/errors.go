package enforce

import "errors"

// Sentinel errors surfaced by the enforce pipeline.
var (
	// ErrRootFolderNotFound indicates the requested root folder does not exist or is not a directory.
	ErrRootFolderNotFound = errors.New("root folder not found")
	// ErrConflictingLineEndingTargets indicates both Windows and Unix targets were requested.
	ErrConflictingLineEndingTargets = errors.New("windows and unix line ending targets are mutually exclusive")
	// ErrViolationsFound indicates at least one file remained flagged after any requested normalization.
	ErrViolationsFound = errors.New("consistency violations found")
)
