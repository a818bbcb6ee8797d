package videoid

import "regexp"

// IDLength is the fixed length of a YouTube video identifier.
const IDLength = 11

// urlRe matches the known YouTube URL shapes and captures the 11-character
// video identifier: youtu.be short links, /watch?v=, /embed/, /v/, and the
// legacy /user/, /ytscreeningroom?v= and /sanday?v= path forms.
var urlRe = regexp.MustCompile(`(?:youtu\.be/|youtube\.com(?:/embed/|/v/|/watch\?v=|/user/\S+|/ytscreeningroom\?v=|/sanday\?v=))([\w-]{11})`)

// Extract pulls the video identifier out of a URL. It returns the id and
// true on a recognized shape, or empty and false otherwise. Pure string
// matching; never touches the network.
func Extract(url string) (string, bool) {
	m := urlRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ThumbnailURL returns the canonical max-resolution thumbnail for a video.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}
