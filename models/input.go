package models

import "fmt"

// InputKind identifies which variant of SearchInput is populated
type InputKind int

const (
	// InputImageBytes carries encoded image bytes in memory
	InputImageBytes InputKind = iota
	// InputImageHandle points at an image file on disk
	InputImageHandle
	// InputURL is a plain URL the service fetches itself
	InputURL
)

func (k InputKind) String() string {
	switch k {
	case InputImageBytes:
		return "image-bytes"
	case InputImageHandle:
		return "image-file"
	case InputURL:
		return "url"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// SearchInput is what the user asked to look up. Exactly one of the payload
// fields is meaningful, selected by Kind.
type SearchInput struct {
	Kind  InputKind
	Bytes []byte // InputImageBytes
	Path  string // InputImageHandle
	URL   string // InputURL

	// Temporary is set when Path was created by the acquirer and should be
	// removed once the search is over.
	Temporary bool
}

// NewImageBytes wraps in-memory image data
func NewImageBytes(data []byte) SearchInput {
	return SearchInput{Kind: InputImageBytes, Bytes: data}
}

// NewImageHandle wraps a path to an image file
func NewImageHandle(path string) SearchInput {
	return SearchInput{Kind: InputImageHandle, Path: path}
}

// NewURL wraps a URL string
func NewURL(u string) SearchInput {
	return SearchInput{Kind: InputURL, URL: u}
}

// IsImage reports whether the input has to be uploaded as a file part
func (in SearchInput) IsImage() bool {
	return in.Kind == InputImageBytes || in.Kind == InputImageHandle
}

// Describe returns a short human readable form, used in logs and dialogs
func (in SearchInput) Describe() string {
	switch in.Kind {
	case InputImageBytes:
		return fmt.Sprintf("%d bytes of image data", len(in.Bytes))
	case InputImageHandle:
		return in.Path
	case InputURL:
		return in.URL
	default:
		return in.Kind.String()
	}
}
