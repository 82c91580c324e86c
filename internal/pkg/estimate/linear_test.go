package estimate

import (
	"testing"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/settings"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	l, err := newLinear(2, 0.05)
	assert.Nil(t, err)
	assert.NotNil(t, l)
	_, err = newLinear(1, 0)
	assert.Nil(t, err)
}

func TestInit_Fails(t *testing.T) {
	_, err := newLinear(0, 0.05)
	assert.NotNil(t, err)
	_, err = newLinear(2, -1)
	assert.NotNil(t, err)
}

func TestNewLinear_Config(t *testing.T) {
	cmdapp.Config.Set("estimate.minutesPerPage", 3)
	cmdapp.Config.Set("estimate.costPerPage", 0.1)
	l, err := NewLinear()
	assert.Nil(t, err)
	r := l.Estimate([]int{10}, settings.Default())
	assert.Equal(t, "30m", r.Time)
	assert.Equal(t, "$1.00", r.Cost)
}

func TestEstimate_Empty(t *testing.T) {
	r := Default().Estimate(nil, settings.Default())
	assert.Equal(t, 0, r.Pages)
	assert.Equal(t, "0m", r.Time)
	assert.Equal(t, "$0.00", r.Cost)
	assert.Equal(t, 0.0, r.Minutes)
	assert.Equal(t, 0.0, r.Amount)
}

func TestEstimate(t *testing.T) {
	r := Default().Estimate([]int{100, 50}, settings.Default())
	assert.Equal(t, 150, r.Pages)
	assert.Equal(t, "300m", r.Time)
	assert.Equal(t, "$7.50", r.Cost)
	assert.Equal(t, 300.0, r.Minutes)
}

func TestEstimate_SkipsMissingPages(t *testing.T) {
	r := Default().Estimate([]int{0, 3, -1}, settings.Default())
	assert.Equal(t, 3, r.Pages)
	assert.Equal(t, "6m", r.Time)
	assert.Equal(t, "$0.15", r.Cost)
}
