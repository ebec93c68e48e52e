package domain

import "errors"

// Resolution error taxonomy. Each failure category has its own sentinel so
// callers can map them to HTTP responses with errors.Is instead of string
// matching. Context is attached by wrapping with fmt.Errorf("%w: ...").
var (
	// ErrUnsupportedPlatform is returned for a platform label outside the
	// supported set.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrPlatformURLMismatch is returned when a URL does not contain any of
	// the requested platform's known domains.
	ErrPlatformURLMismatch = errors.New("url does not match platform")

	// ErrTrackLookupFailed is returned when the catalog track lookup fails
	// or the track cannot be found.
	ErrTrackLookupFailed = errors.New("track lookup failed")

	// ErrNoMatchFound is returned when the video search yields no usable
	// result. Maps to a not-found response.
	ErrNoMatchFound = errors.New("no matching source found")

	// ErrInvalidCarouselIndex is returned when a carousel index is out of
	// bounds for the target post.
	ErrInvalidCarouselIndex = errors.New("invalid carousel index")

	// ErrResolutionFailed is returned for unrecoverable extraction failures.
	ErrResolutionFailed = errors.New("resolution failed")

	// ErrUpstreamFetchFailed is returned when fetching a resolved asset URL
	// fails before any byte has been streamed.
	ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

	// ErrPostDeclined signals that the structured-post resolver had nothing
	// to say about a URL and the caller should fall back to direct
	// extraction. It is a control-flow signal, never surfaced to clients.
	ErrPostDeclined = errors.New("post resolver declined")
)
