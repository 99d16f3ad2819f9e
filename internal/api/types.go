// Backend record types. Field shapes follow the REST API's JSON payloads;
// timestamps stay as the backend's ISO strings since the client only displays
// and relays them.
package api

// User represents an authenticated account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// TokenResponse is the payload of successful login/register calls.
type TokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Script is a generated short-video script.
type Script struct {
	ID             string   `json:"id"`
	Topic          string   `json:"topic"`
	Mode           string   `json:"mode"`
	Script         string   `json:"script"`
	HookText       string   `json:"hook_text"`
	HookType       string   `json:"hook_type"`
	Tags           []string `json:"tags,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	CharacterCount int      `json:"character_count"`
	HookID         string   `json:"hook_id,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// Hook is an entry in the hook-phrase library.
type Hook struct {
	ID           string   `json:"id"`
	HookText     string   `json:"hook_text"`
	Mode         string   `json:"mode"`
	HookType     string   `json:"hook_type"`
	Tags         []string `json:"tags,omitempty"`
	Topic        string   `json:"topic,omitempty"`
	ScriptID     string   `json:"script_id,omitempty"`
	Source       string   `json:"source"`
	AvgRetention float64  `json:"avg_retention"`
	UsageCount   int      `json:"usage_count"`
	CreatedAt    string   `json:"created_at"`
}

// VideoStatus is the backend-owned render state enumeration. The client never
// sets it; it is a read-only projection refreshed on each poll.
type VideoStatus string

const (
	StatusQueued     VideoStatus = "queued"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// Terminal reports whether the status is a final render state.
func (s VideoStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Video is the client-side view of a backend render job.
type Video struct {
	ID        string      `json:"id"`
	ScriptID  string      `json:"script_id"`
	Status    VideoStatus `json:"status"`
	VideoURL  string      `json:"video_url,omitempty"`
	AudioURL  string      `json:"audio_url,omitempty"`
	Duration  float64     `json:"duration,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// VoiceSettings tunes the TTS voice used for rendering.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceID is the backend's default multilingual voice.
const DefaultVoiceID = "BsX9EcVskRzn0UFZ9dmh"

// DefaultVoiceSettings returns the backend's default TTS tuning.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.7,
		SimilarityBoost: 0.75,
		Style:           0.5,
		Speed:           1.0,
		UseSpeakerBoost: true,
	}
}

// VoicePreferences is a saved per-user voice configuration.
type VoicePreferences struct {
	ID            string        `json:"id"`
	VoiceID       string        `json:"voice_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
	IsDefault     bool          `json:"is_default"`
	CreatedAt     string        `json:"created_at,omitempty"`
}

// Metric is a manually recorded performance measurement for a published video.
type Metric struct {
	ID               string  `json:"id"`
	ScriptID         string  `json:"script_id"`
	HookUsed         string  `json:"hook_used"`
	Views            int     `json:"views"`
	Likes            int     `json:"likes"`
	Comments         int     `json:"comments"`
	Subs             int     `json:"subs"`
	RetentionPercent float64 `json:"retention_percent"`
	SwipeRate        float64 `json:"swipe_rate"`
	CreatedAt        string  `json:"created_at"`
}

// AnalyticsOverview aggregates content performance.
type AnalyticsOverview struct {
	TotalScripts   int     `json:"total_scripts"`
	TotalHooks     int     `json:"total_hooks"`
	TotalVideos    int     `json:"total_videos"`
	TotalViews     int     `json:"total_views"`
	AvgRetention   float64 `json:"avg_retention"`
	BestHookText   string  `json:"best_hook_text,omitempty"`
	BestHookViews  int     `json:"best_hook_views,omitempty"`
	MetricsTracked int     `json:"metrics_tracked"`
}

// YouTubeStatus describes the backend-held channel connection.
type YouTubeStatus struct {
	Connected   bool   `json:"connected"`
	ChannelID   string `json:"channel_id,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
	ConnectedAt string `json:"connected_at,omitempty"`
}
