package settings

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApply(t *testing.T) {
	Convey("Given default settings", t, func() {
		s := Default()

		Convey("When voice update has only rate", func() {
			var u VoiceUpdate
			So(json.Unmarshal([]byte(`{"rate":1.25}`), &u), ShouldBeNil)
			v := s.Voice.Apply(u)

			Convey("Then rate is changed", func() {
				So(v.Rate, ShouldEqual, 1.25)
			})
			Convey("Then other values are kept", func() {
				So(v.VoiceID, ShouldEqual, "aria")
				So(v.Emotion, ShouldEqual, 30)
				So(v.Language, ShouldEqual, "en-US")
			})
		})

		Convey("When output update sets false values", func() {
			var u OutputUpdate
			So(json.Unmarshal([]byte(`{"chapterDetection":false,"bgMusicVolume":0}`), &u), ShouldBeNil)
			o := s.Output.Apply(u)

			Convey("Then they are applied", func() {
				So(o.ChapterDetection, ShouldBeFalse)
				So(o.BgMusicVolume, ShouldEqual, 0)
				So(o.NormalizeAudio, ShouldBeTrue)
			})
		})

		Convey("When advanced update has a dictionary", func() {
			d := map[string]string{"Tolkien": "tol-keen"}
			a := s.Advanced.Apply(AdvancedUpdate{PronunciationDict: d})
			d["Tolkien"] = "changed"

			Convey("Then dictionary is replaced by a copy", func() {
				So(a.PronunciationDict["Tolkien"], ShouldEqual, "tol-keen")
				So(a.Model, ShouldEqual, "neural")
			})
		})

		Convey("When update is empty", func() {
			Convey("Then nothing changes", func() {
				So(s.Voice.Apply(VoiceUpdate{}), ShouldResemble, s.Voice)
				So(s.Output.Apply(OutputUpdate{}), ShouldResemble, s.Output)
			})
		})
	})
}
