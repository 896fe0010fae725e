// Package models defines the shared domain types for exampledeck.
package models

import "time"

// SourceFile describes one markdown example file found in the source directory.
type SourceFile struct {
	Name    string    `json:"name"` // file name relative to the source root
	ID      string    `json:"id"`   // file name without extension
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}
