package voices

import (
	"os"
	"sync"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Voice is a narration voice
type Voice struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Gender  string `json:"gender" yaml:"gender"`
	Accent  string `json:"accent" yaml:"accent"`
	Preview string `json:"preview" yaml:"preview"`
}

// Language is a narration language
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	Flag string `json:"flag" yaml:"flag"`
}

// Data is the catalog file content
type Data struct {
	Voices    []Voice    `yaml:"voices"`
	Languages []Language `yaml:"languages"`
}

// Catalog provides available voices and languages
type Catalog struct {
	lock sync.RWMutex
	data Data
	v    *viper.Viper
}

// Default returns built in catalog
func Default() *Catalog {
	return &Catalog{data: defaultData()}
}

// NewFileCatalog loads catalog from yaml file and reloads it on file change
func NewFileCatalog(file string) (*Catalog, error) {
	cmdapp.Log.Infof("Init voices from: %s", file)
	if file == "" {
		return nil, errors.New("No voices file provided")
	}
	d, err := loadFile(file)
	if err != nil {
		return nil, err
	}
	res := &Catalog{data: d}
	res.v = viper.New()
	res.v.SetConfigFile(file)
	res.v.SetConfigType("yml")
	if err := res.v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "Can't read voices file: "+file)
	}
	res.v.OnConfigChange(func(e fsnotify.Event) {
		d, err := loadFile(file)
		if err != nil {
			cmdapp.Log.Error(errors.Wrap(err, "Voices not reloaded"))
			return
		}
		res.set(d)
		cmdapp.Log.Infof("Voices reloaded from: %s", file)
	})
	res.v.WatchConfig()
	return res, nil
}

// Voices returns all voices
func (c *Catalog) Voices() []Voice {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]Voice(nil), c.data.Voices...)
}

// Languages returns all languages
func (c *Catalog) Languages() []Language {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append([]Language(nil), c.data.Languages...)
}

// HasVoice checks voice id
func (c *Catalog) HasVoice(id string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, v := range c.data.Voices {
		if v.ID == id {
			return true
		}
	}
	return false
}

// HasLanguage checks language code
func (c *Catalog) HasLanguage(code string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, l := range c.data.Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

func (c *Catalog) set(d Data) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.data = d
}

func loadFile(file string) (Data, error) {
	fData, err := os.ReadFile(file)
	if err != nil {
		return Data{}, errors.Wrap(err, "Can't load: "+file)
	}
	res, err := loadYaml(fData)
	if err != nil {
		return Data{}, errors.Wrap(err, "Can't load: "+file)
	}
	return res, nil
}

func loadYaml(data []byte) (Data, error) {
	res := Data{}
	err := yaml.Unmarshal(data, &res)
	if err != nil {
		return Data{}, errors.Wrap(err, "Can't unmarshal")
	}
	if len(res.Voices) == 0 {
		return Data{}, errors.New("No voices in yaml")
	}
	if len(res.Languages) == 0 {
		return Data{}, errors.New("No languages in yaml")
	}
	ids := map[string]bool{}
	for _, v := range res.Voices {
		if v.ID == "" || ids[v.ID] {
			return Data{}, errors.Errorf("Wrong or duplicate voice id '%s'", v.ID)
		}
		ids[v.ID] = true
	}
	codes := map[string]bool{}
	for _, l := range res.Languages {
		if l.Code == "" || codes[l.Code] {
			return Data{}, errors.Errorf("Wrong or duplicate language code '%s'", l.Code)
		}
		codes[l.Code] = true
	}
	return res, nil
}

func defaultData() Data {
	return Data{
		Voices: []Voice{
			{ID: "aria", Name: "Aria", Gender: "female", Accent: "US", Preview: "/voices/aria.mp3"},
			{ID: "roger", Name: "Roger", Gender: "male", Accent: "UK", Preview: "/voices/roger.mp3"},
			{ID: "sarah", Name: "Sarah", Gender: "female", Accent: "US", Preview: "/voices/sarah.mp3"},
			{ID: "callum", Name: "Callum", Gender: "male", Accent: "UK", Preview: "/voices/callum.mp3"},
			{ID: "charlotte", Name: "Charlotte", Gender: "female", Accent: "AU", Preview: "/voices/charlotte.mp3"},
		},
		Languages: []Language{
			{Code: "en-US", Name: "English (US)", Flag: "🇺🇸"},
			{Code: "en-GB", Name: "English (UK)", Flag: "🇬🇧"},
			{Code: "en-AU", Name: "English (AU)", Flag: "🇦🇺"},
			{Code: "es-ES", Name: "Spanish", Flag: "🇪🇸"},
			{Code: "fr-FR", Name: "French", Flag: "🇫🇷"},
			{Code: "de-DE", Name: "German", Flag: "🇩🇪"},
			{Code: "it-IT", Name: "Italian", Flag: "🇮🇹"},
			{Code: "pt-BR", Name: "Portuguese", Flag: "🇧🇷"},
			{Code: "ja-JP", Name: "Japanese", Flag: "🇯🇵"},
			{Code: "zh-CN", Name: "Chinese", Flag: "🇨🇳"},
		},
	}
}
