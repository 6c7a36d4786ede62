// Package response normalizes arbitrary backend payloads into the canonical
// Response model consumed by the display and export layers.
//
// The backend's reply shape is not contractually fixed: it may be a JSON
// object in one of several nested layouts, a bare array, a plain-text blob,
// or markdown-like prose. This package absorbs that unreliability: every
// input, no matter how malformed, yields a well-formed Response.
package response

// Response is the canonical reply structure. It is constructed once per
// backend reply and never mutated afterwards; any re-render recomputes
// derived markup from it.
type Response struct {
	// Answer is never absent; an empty string means no content was found.
	Answer string `json:"answer"`

	// Optional metadata. A nil slice means the field was absent or
	// unusable in the raw payload.
	RelatedContent  []RelatedItem `json:"relatedContent,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
	FileLinks       []FileLink    `json:"fileLinks,omitempty"`
	Tables          []Table       `json:"tables,omitempty"`
}

// RelatedItem is a link to related content. Title and URL are always
// non-empty after validation.
type RelatedItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// FileLink is a downloadable document reference. Title and URL are always
// non-empty after validation.
type FileLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Table holds structured side-data referenced from the answer text via
// [TABLE:<title>] placeholder tokens. Row lengths are not required to match
// the header count; rendering tolerates the mismatch.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RawCandidate is the untyped intermediate record extracted by the shape
// reconciler before validation. It uses the canonical field names
// ("answer", "relatedContent", "recommendations", "fileLinks", "tables")
// regardless of which synonyms the payload used. It never leaves this
// package's pipeline.
type RawCandidate map[string]any
