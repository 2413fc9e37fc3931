package search

import "strings"

const (
	IconYouTube  = "https://img.icons8.com/color/48/000000/youtube-play.png"
	IconFacebook = "https://img.icons8.com/color/48/000000/facebook-new.png"
	IconTwitter  = "https://img.icons8.com/color/48/000000/twitter.png"
	IconDefault  = "https://img.icons8.com/ios-filled/50/000000/link.png"
)

var domainIcons = []struct {
	domain string
	icon   string
}{
	{"youtube.com", IconYouTube},
	{"facebook.com", IconFacebook},
	{"twitter.com", IconTwitter},
}

// IconFor picks the display icon for an article link by its domain.
func IconFor(link string) string {
	for _, d := range domainIcons {
		if strings.Contains(link, d.domain) {
			return d.icon
		}
	}
	return IconDefault
}
