package recall

// Wire shapes for the bot provider API. The same structs decode webhook
// fragments and API responses, so candidate URL extraction lives here
// and is shared by everything that sees a recording.

// MediaData carries the download link inside a media shortcut
type MediaData struct {
	DownloadURL string `json:"download_url"`
}

// MediaShortcut is one renderable media kind on a recording
type MediaShortcut struct {
	Data MediaData `json:"data"`
}

// MediaShortcuts groups known media kinds. Audio-mixed is preferred
// over video-mixed when both carry a link.
type MediaShortcuts struct {
	AudioMixed *MediaShortcut `json:"audio_mixed,omitempty"`
	VideoMixed *MediaShortcut `json:"video_mixed,omitempty"`
}

// Recording is a captured media artifact attached to a bot
type Recording struct {
	ID             string          `json:"id"`
	Status         string          `json:"status,omitempty"`
	DownloadURL    string          `json:"download_url,omitempty"`
	AudioURL       string          `json:"audio_url,omitempty"`
	URL            string          `json:"url,omitempty"`
	MediaShortcuts *MediaShortcuts `json:"media_shortcuts,omitempty"`
}

// CandidateURLs returns every download location found on the recording,
// in precedence order: direct fields first, then media shortcuts with
// audio preferred over video. Order matters; the first candidate wins
// at resolution time but the rest are kept as fallbacks.
func (r *Recording) CandidateURLs() []string {
	var urls []string
	for _, u := range []string{r.DownloadURL, r.AudioURL, r.URL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	if r.MediaShortcuts != nil {
		if s := r.MediaShortcuts.AudioMixed; s != nil && s.Data.DownloadURL != "" {
			urls = append(urls, s.Data.DownloadURL)
		}
		if s := r.MediaShortcuts.VideoMixed; s != nil && s.Data.DownloadURL != "" {
			urls = append(urls, s.Data.DownloadURL)
		}
	}
	return urls
}

// Bot is a provider bot session
type Bot struct {
	ID         string            `json:"id"`
	MeetingURL string            `json:"meeting_url,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Recordings []Recording       `json:"recordings,omitempty"`
}

// MeetingCorrelationID returns the correlation id this system attached
// at bot creation, or empty when the bot was not started by us
func (b *Bot) MeetingCorrelationID() string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata["meeting_id"]
}

// startBotRequest is the bot creation payload
type startBotRequest struct {
	MeetingURL string            `json:"meeting_url"`
	BotName    string            `json:"bot_name,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
