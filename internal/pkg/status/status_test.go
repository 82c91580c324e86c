package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, Queued, From("queued"))
	assert.Equal(t, Synthesizing, From("synthesizing"))
	assert.Equal(t, Failed, From("failed"))
	assert.Equal(t, Stage(0), From("olia"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "merging", Name(Merging))
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "", Name(Stage(100)))
}

func TestTerminal(t *testing.T) {
	assert.True(t, Completed.Terminal())
	assert.True(t, Failed.Terminal())
	for _, st := range []Stage{Queued, Uploading, Chunking, Synthesizing, Merging, Packaging} {
		assert.False(t, st.Terminal(), st.String())
	}
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		S Stage `json:"s"`
	}{S: Packaging})
	assert.Nil(t, err)
	assert.Equal(t, `{"s":"packaging"}`, string(b))

	var r struct {
		S Stage `json:"s"`
	}
	assert.Nil(t, json.Unmarshal([]byte(`{"s":"chunking"}`), &r))
	assert.Equal(t, Chunking, r.S)
}
