package domain

import (
	"fmt"
	"strings"
)

// Platform represents the source platform for downloads
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformSpotify   Platform = "spotify"
)

// ResolutionStrategy describes how a platform's URLs are turned into media
type ResolutionStrategy string

const (
	StrategyDirect      ResolutionStrategy = "direct"       // hand the URL straight to the extractor
	StrategyTrackSearch ResolutionStrategy = "track-search" // catalog lookup + video search
	StrategyPost        ResolutionStrategy = "post"         // structured-post walk, extractor fallback
)

// platformDomains maps each platform to the domain substrings a valid URL
// must contain at least one of. Matching is case-insensitive.
var platformDomains = map[Platform][]string{
	PlatformYouTube:   {"youtube.com", "youtu.be"},
	PlatformFacebook:  {"facebook.com", "fb.watch"},
	PlatformInstagram: {"instagram.com"},
	PlatformSpotify:   {"spotify.com", "open.spotify.com"},
}

var platformStrategies = map[Platform]ResolutionStrategy{
	PlatformYouTube:   StrategyDirect,
	PlatformFacebook:  StrategyDirect,
	PlatformInstagram: StrategyPost,
	PlatformSpotify:   StrategyTrackSearch,
}

// ValidatePlatform checks if a platform is in the supported set
func ValidatePlatform(platform Platform) bool {
	_, ok := platformDomains[platform]
	return ok
}

// Domains returns the domain substrings accepted for a platform
func (p Platform) Domains() []string {
	domains := platformDomains[p]
	out := make([]string, len(domains))
	copy(out, domains)
	return out
}

// Strategy returns the resolution strategy associated with a platform
func (p Platform) Strategy() ResolutionStrategy {
	return platformStrategies[p]
}

// ClassifyURL validates that the platform label is supported and that the URL
// belongs to that platform. Pure string matching, no network access.
func ClassifyURL(platform Platform, rawURL string) error {
	domains, ok := platformDomains[platform]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(platform))
	}

	lowered := strings.ToLower(rawURL)
	for _, domain := range domains {
		if strings.Contains(lowered, domain) {
			return nil
		}
	}

	return fmt.Errorf("%w: please provide a valid %s link (expected one of %s)",
		ErrPlatformURLMismatch, capitalize(string(platform)), strings.Join(domains, ", "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
