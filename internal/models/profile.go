package models

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var profileIndexRe = regexp.MustCompile(`_(\d+)\.json$`)

// ProfileFile is a captured trace document on disk.
type ProfileFile struct {
	Path    string
	Name    string
	Index   int // capture number from profile_Data_NNNN.json, -1 if absent
	Size    int64
	ModTime time.Time
}

// NewProfileFile builds a ProfileFile from a path and its stat info.
func NewProfileFile(path string, size int64, modTime time.Time) ProfileFile {
	name := filepath.Base(path)
	return ProfileFile{
		Path:    path,
		Name:    name,
		Index:   ProfileIndex(name),
		Size:    size,
		ModTime: modTime,
	}
}

// ProfileIndex extracts the capture number from a profile file name.
func ProfileIndex(name string) int {
	match := profileIndexRe.FindStringSubmatch(name)
	if len(match) < 2 {
		return -1
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return -1
	}
	return n
}

// Less orders captures by index, then by modification time, then by name.
func (p ProfileFile) Less(other ProfileFile) bool {
	if p.Index != other.Index {
		return p.Index < other.Index
	}
	if !p.ModTime.Equal(other.ModTime) {
		return p.ModTime.Before(other.ModTime)
	}
	return p.Name < other.Name
}
