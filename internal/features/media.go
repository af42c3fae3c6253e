package features

import (
	"regexp"

	"github.com/skimmerhq/skimmer/internal/models"
)

var (
	imageRe   = regexp.MustCompile(`(?i)pic\.twitter\.com|twitter\.com/[^/]+/status/[0-9]+/photo/`)
	videoRe   = regexp.MustCompile(`(?i)video|gif|mp4|mov`)
	youtubeRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:youtube\.com|youtu\.be)/\S+`)
)

// DetectMedia infers media presence from text patterns only; it never
// fetches anything.
func DetectMedia(text string) models.MediaInfo {
	links := youtubeRe.FindAllString(text, -1)
	if links == nil {
		links = []string{}
	}

	return models.MediaInfo{
		HasImages:    imageRe.MatchString(text),
		HasVideo:     videoRe.MatchString(text),
		IsThread:     threadRe.MatchString(text),
		YouTubeLinks: links,
	}
}

// BuildMediaFeatures summarizes the media signals for one post.
func BuildMediaFeatures(mediaURLs []string, info models.MediaInfo) models.MediaFeatures {
	return models.MediaFeatures{
		HasMedia:     len(mediaURLs) > 0,
		ImageCount:   len(mediaURLs),
		IsThread:     info.IsThread,
		YouTubeVideo: len(info.YouTubeLinks) > 0,
	}
}
