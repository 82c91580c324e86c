package settings

// VoiceUpdate is a partial voice change, nil fields are kept
type VoiceUpdate struct {
	Language *string  `json:"language,omitempty"`
	VoiceID  *string  `json:"voiceId,omitempty"`
	Emotion  *int     `json:"emotion,omitempty"`
	Rate     *float64 `json:"rate,omitempty"`
	Pitch    *int     `json:"pitch,omitempty"`
}

// OutputUpdate is a partial output change
type OutputUpdate struct {
	Format           *string `json:"format,omitempty"`
	SampleRate       *int    `json:"sampleRate,omitempty"`
	Bitrate          *int    `json:"bitrate,omitempty"`
	ChapterDetection *bool   `json:"chapterDetection,omitempty"`
	NormalizeAudio   *bool   `json:"normalizeAudio,omitempty"`
	BackgroundMusic  *bool   `json:"backgroundMusic,omitempty"`
	BgMusicVolume    *int    `json:"bgMusicVolume,omitempty"`
}

// AdvancedUpdate is a partial advanced change, the dictionary is replaced as a whole
type AdvancedUpdate struct {
	Model             *string           `json:"model,omitempty"`
	SSML              *string           `json:"ssml,omitempty"`
	PronunciationDict map[string]string `json:"pronunciationDict,omitempty"`
}

// Apply returns voice with the update merged in
func (v Voice) Apply(u VoiceUpdate) Voice {
	if u.Language != nil {
		v.Language = *u.Language
	}
	if u.VoiceID != nil {
		v.VoiceID = *u.VoiceID
	}
	if u.Emotion != nil {
		v.Emotion = *u.Emotion
	}
	if u.Rate != nil {
		v.Rate = *u.Rate
	}
	if u.Pitch != nil {
		v.Pitch = *u.Pitch
	}
	return v
}

// Apply returns output with the update merged in
func (o Output) Apply(u OutputUpdate) Output {
	if u.Format != nil {
		o.Format = *u.Format
	}
	if u.SampleRate != nil {
		o.SampleRate = *u.SampleRate
	}
	if u.Bitrate != nil {
		o.Bitrate = *u.Bitrate
	}
	if u.ChapterDetection != nil {
		o.ChapterDetection = *u.ChapterDetection
	}
	if u.NormalizeAudio != nil {
		o.NormalizeAudio = *u.NormalizeAudio
	}
	if u.BackgroundMusic != nil {
		o.BackgroundMusic = *u.BackgroundMusic
	}
	if u.BgMusicVolume != nil {
		o.BgMusicVolume = *u.BgMusicVolume
	}
	return o
}

// Apply returns advanced settings with the update merged in
func (a Advanced) Apply(u AdvancedUpdate) Advanced {
	if u.Model != nil {
		a.Model = *u.Model
	}
	if u.SSML != nil {
		a.SSML = *u.SSML
	}
	if u.PronunciationDict != nil {
		a.PronunciationDict = copyDict(u.PronunciationDict)
	}
	return a
}
