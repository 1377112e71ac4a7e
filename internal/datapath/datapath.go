// Package datapath locates the game data directory on disk.
//
// A directory is a valid data root when it holds a regular file named
// data.lock at its top level. The resolver only reads the filesystem.
package datapath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SentinelName is the file whose presence marks a data root.
const SentinelName = "data.lock"

// DirName is the directory name probed relative to the working directory
// and its ancestors.
const DirName = "data"

// maxAscent is how many parent directories above the working directory are
// searched. Two levels covers running from a nested build output directory.
const maxAscent = 2

// ErrNotFound is returned when neither the hint nor any search candidate
// contains the sentinel.
var ErrNotFound = errors.New("no data path specified and no 'data' folder found")

// EnvironmentError reports that the working directory could not be queried
// or canonicalized.
type EnvironmentError struct {
	Op   string
	Path string
	Err  error
}

func (e *EnvironmentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// Source identifies which candidate produced the resolved path.
type Source int

const (
	SourceNone Source = iota
	SourceHint
	SourceWorkDir
	SourceParent
	SourceGrandparent
)

// String returns a short name for the source.
func (s Source) String() string {
	switch s {
	case SourceHint:
		return "hint"
	case SourceWorkDir:
		return "cwd"
	case SourceParent:
		return "parent"
	case SourceGrandparent:
		return "grandparent"
	default:
		return "none"
	}
}

// Result is the outcome of a successful resolution.
type Result struct {
	Path   string // canonical absolute data directory
	Source Source

	// RejectedHint is the user-supplied path that failed validation.
	// Empty when no hint was given or the hint was accepted.
	RejectedHint string
}

// Resolver finds the data directory. The zero value uses os.Getwd.
type Resolver struct {
	// Getwd returns the working directory. Nil means os.Getwd.
	Getwd func() (string, error)
}

// Resolve returns the first valid data directory in this order: hint,
// <cwd>/data, <cwd>/../data, <cwd>/../../data. An invalid hint is not an
// error; the search continues past it. A relative hint is taken relative
// to the working directory reported by Getwd.
func (r Resolver) Resolve(hint string) (Result, error) {
	var (
		res Result
		cwd string
	)

	if hint != "" {
		dir := hint
		if !filepath.IsAbs(dir) {
			wd, err := r.workDir()
			if err != nil {
				return Result{}, err
			}
			cwd = wd
			dir = filepath.Join(cwd, hint)
		}
		if HasSentinel(dir) {
			path, err := Canonicalize(dir)
			if err == nil {
				res.Path = path
				res.Source = SourceHint
				return res, nil
			}
		}
		res.RejectedHint = hint
	}

	if cwd == "" {
		wd, err := r.workDir()
		if err != nil {
			return Result{}, err
		}
		cwd = wd
	}

	for i, dir := range Candidates(cwd) {
		if !HasSentinel(dir) {
			continue
		}
		path, err := Canonicalize(dir)
		if err != nil {
			continue
		}
		res.Path = path
		res.Source = SourceWorkDir + Source(i)
		return res, nil
	}

	return Result{}, ErrNotFound
}

// workDir returns the canonical working directory.
func (r Resolver) workDir() (string, error) {
	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}

	wd, err := getwd()
	if err != nil {
		return "", &EnvironmentError{Op: "query working directory", Err: err}
	}
	cwd, err := Canonicalize(wd)
	if err != nil {
		return "", &EnvironmentError{Op: "canonicalize working directory", Path: wd, Err: err}
	}
	return cwd, nil
}

// Candidates lists the search directories for a canonical working
// directory, nearest first. Ancestors above the filesystem root are
// omitted.
func Candidates(cwd string) []string {
	dirs := make([]string, 0, maxAscent+1)
	dir := cwd
	for i := 0; i <= maxAscent; i++ {
		dirs = append(dirs, filepath.Join(dir, DirName))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs
}

// HasSentinel reports whether dir/data.lock exists and is a regular file.
// A dir that is not a directory never qualifies.
func HasSentinel(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, SentinelName))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Canonicalize returns the absolute path of p with symlinks resolved and
// redundant separators removed.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
