package settings

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Voice keeps narration voice settings
type Voice struct {
	Language string  `json:"language"`
	VoiceID  string  `json:"voiceId"`
	Emotion  int     `json:"emotion"` // 0 - calm, 100 - energetic
	Rate     float64 `json:"rate"`
	Pitch    int     `json:"pitch"`
}

// Output keeps result audio settings
type Output struct {
	Format           string `json:"format"`
	SampleRate       int    `json:"sampleRate"`
	Bitrate          int    `json:"bitrate"`
	ChapterDetection bool   `json:"chapterDetection"`
	NormalizeAudio   bool   `json:"normalizeAudio"`
	BackgroundMusic  bool   `json:"backgroundMusic"`
	BgMusicVolume    int    `json:"bgMusicVolume"`
}

// Advanced keeps synthesis model settings
type Advanced struct {
	Model             string            `json:"model"`
	SSML              string            `json:"ssml"`
	PronunciationDict map[string]string `json:"pronunciationDict"`
}

// Settings is the process wide conversion configuration
type Settings struct {
	Voice    Voice    `json:"voice"`
	Output   Output   `json:"output"`
	Advanced Advanced `json:"advanced"`
}

var (
	formats     = map[string]bool{"mp3": true, "m4b": true}
	sampleRates = map[int]bool{22050: true, 44100: true, 48000: true}
	bitrates    = map[int]bool{64: true, 128: true, 192: true, 320: true}
	models      = map[string]bool{"standard": true, "neural": true, "premium": true}
)

// Default returns initial settings
func Default() Settings {
	return Settings{
		Voice: Voice{Language: "en-US", VoiceID: "aria", Emotion: 30, Rate: 1.0, Pitch: 0},
		Output: Output{Format: "mp3", SampleRate: 44100, Bitrate: 128, ChapterDetection: true,
			NormalizeAudio: true, BackgroundMusic: false, BgMusicVolume: 20},
		Advanced: Advanced{Model: "neural", SSML: "", PronunciationDict: map[string]string{}},
	}
}

// Load returns defaults overridden by values under settings.* of the config
func Load(c *viper.Viper) (Settings, error) {
	res := Default()
	if c == nil {
		return res, nil
	}
	setString(c, "settings.voice.language", &res.Voice.Language)
	setString(c, "settings.voice.voiceId", &res.Voice.VoiceID)
	setInt(c, "settings.voice.emotion", &res.Voice.Emotion)
	if c.IsSet("settings.voice.rate") {
		res.Voice.Rate = c.GetFloat64("settings.voice.rate")
	}
	setInt(c, "settings.voice.pitch", &res.Voice.Pitch)
	setString(c, "settings.output.format", &res.Output.Format)
	setInt(c, "settings.output.sampleRate", &res.Output.SampleRate)
	setInt(c, "settings.output.bitrate", &res.Output.Bitrate)
	setBool(c, "settings.output.chapterDetection", &res.Output.ChapterDetection)
	setBool(c, "settings.output.normalizeAudio", &res.Output.NormalizeAudio)
	setBool(c, "settings.output.backgroundMusic", &res.Output.BackgroundMusic)
	setInt(c, "settings.output.bgMusicVolume", &res.Output.BgMusicVolume)
	setString(c, "settings.advanced.model", &res.Advanced.Model)
	setString(c, "settings.advanced.ssml", &res.Advanced.SSML)
	if c.IsSet("settings.advanced.pronunciationDict") {
		res.Advanced.PronunciationDict = c.GetStringMapString("settings.advanced.pronunciationDict")
	}
	if err := res.Validate(); err != nil {
		return Settings{}, errors.Wrap(err, "Wrong settings in config")
	}
	return res, nil
}

// Copy returns a deep copy
func (s Settings) Copy() Settings {
	res := s
	res.Advanced.PronunciationDict = copyDict(s.Advanced.PronunciationDict)
	return res
}

// Validate returns all range violations combined
func (s Settings) Validate() error {
	return multierr.Combine(s.Voice.Validate(), s.Output.Validate(), s.Advanced.Validate())
}

// Validate checks voice value ranges
func (v Voice) Validate() error {
	var err error
	if v.Language == "" {
		err = multierr.Append(err, errors.New("No voice language"))
	}
	if v.VoiceID == "" {
		err = multierr.Append(err, errors.New("No voice id"))
	}
	if v.Emotion < 0 || v.Emotion > 100 {
		err = multierr.Append(err, errors.Errorf("Wrong emotion %d, expected [0, 100]", v.Emotion))
	}
	if v.Rate < 0.5 || v.Rate > 2.0 {
		err = multierr.Append(err, errors.Errorf("Wrong rate %v, expected [0.5, 2.0]", v.Rate))
	}
	if v.Pitch < -20 || v.Pitch > 20 {
		err = multierr.Append(err, errors.Errorf("Wrong pitch %d, expected [-20, 20]", v.Pitch))
	}
	return err
}

// Validate checks output values
func (o Output) Validate() error {
	var err error
	if !formats[o.Format] {
		err = multierr.Append(err, errors.Errorf("Wrong format '%s'", o.Format))
	}
	if !sampleRates[o.SampleRate] {
		err = multierr.Append(err, errors.Errorf("Wrong sample rate %d", o.SampleRate))
	}
	if !bitrates[o.Bitrate] {
		err = multierr.Append(err, errors.Errorf("Wrong bitrate %d", o.Bitrate))
	}
	if o.BgMusicVolume < 0 || o.BgMusicVolume > 50 {
		err = multierr.Append(err, errors.Errorf("Wrong background music volume %d, expected [0, 50]", o.BgMusicVolume))
	}
	return err
}

// Validate checks advanced values
func (a Advanced) Validate() error {
	if !models[a.Model] {
		return errors.Errorf("Wrong model '%s'", a.Model)
	}
	return nil
}

func copyDict(d map[string]string) map[string]string {
	res := make(map[string]string, len(d))
	for k, v := range d {
		res[k] = v
	}
	return res
}

func setString(c *viper.Viper, key string, v *string) {
	if c.IsSet(key) {
		*v = c.GetString(key)
	}
}

func setInt(c *viper.Viper, key string, v *int) {
	if c.IsSet(key) {
		*v = c.GetInt(key)
	}
}

func setBool(c *viper.Viper, key string, v *bool) {
	if c.IsSet(key) {
		*v = c.GetBool(key)
	}
}
