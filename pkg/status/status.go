// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"os"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of processing a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // No rule matched
	StatusPreview              // Changes found, not written
	StatusModified             // Changes written
	StatusFailed               // Read, decode or write failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusPreview:
		return "preview"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileResult is the outcome of processing one file
type FileResult struct {
	Path      string       // File path as discovered
	Status    FileStatus   // Outcome
	Changes   int          // Positions altered (or that would be)
	Counts    []rule.Count // Per-rule breakdown
	Original  []byte       // Content before rewriting, set when Changes > 0
	Rewritten []byte       // Content after rewriting, set when Changes > 0
	Err       error        // Set when Status is StatusFailed
}

// 📈 Summary aggregates file results of a run
type Summary struct {
	FilesScanned  int  // Files handed to the rewriter
	FilesModified int  // Files changed (or that would be, in preview)
	FilesFailed   int  // Files that could not be processed
	TotalChanges  int  // Sum of changes over changed files
	Cancelled     bool // Run was declined at the confirmation gate
}

// ➕ Add folds one file result into the summary
func (s *Summary) Add(r FileResult) {
	s.FilesScanned++
	switch r.Status {
	case StatusFailed:
		s.FilesFailed++
	case StatusPreview, StatusModified:
		s.FilesModified++
		s.TotalChanges += r.Changes
	}
}

// Fold builds a summary from results in order
func Fold(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}

// 💾 FileManager handles the file system operations of a run
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
}

// 🔧 OSFileManager implements FileManager on the local file system
type OSFileManager struct{}

// 🏭 NewOSFileManager creates a new OSFileManager
func NewOSFileManager() *OSFileManager {
	return &OSFileManager{}
}

// ReadFile implements FileManager.ReadFile
func (m *OSFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile implements FileManager.WriteFile.
// Content goes to a temp file next to path which then replaces path, keeping
// the original permissions.
func (m *OSFileManager) WriteFile(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
