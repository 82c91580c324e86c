package estimate

import (
	"fmt"
	"strconv"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/settings"
	"github.com/pkg/errors"
)

// Result is the aggregated narration time and price
type Result struct {
	Pages   int     `json:"pages"`
	Minutes float64 `json:"minutes"`
	Amount  float64 `json:"amount"`
	Time    string  `json:"time"`
	Cost    string  `json:"cost"`
}

// Estimator calculates time and cost for documents pages
type Estimator interface {
	Estimate(pages []int, s settings.Settings) Result
}

// Linear estimation: fixed minutes and price per page
type Linear struct {
	minutesPerPage float64
	costPerPage    float64
}

// NewLinear inits estimator from estimate.* config
func NewLinear() (*Linear, error) {
	return newLinear(cmdapp.Config.GetFloat64("estimate.minutesPerPage"),
		cmdapp.Config.GetFloat64("estimate.costPerPage"))
}

// Default returns 2 min and $0.05 per page estimator
func Default() *Linear {
	return &Linear{minutesPerPage: 2, costPerPage: 0.05}
}

func newLinear(minutesPerPage, costPerPage float64) (*Linear, error) {
	if minutesPerPage <= 0 {
		return nil, errors.New("Wrong or no estimate.minutesPerPage")
	}
	if costPerPage < 0 {
		return nil, errors.New("Wrong estimate.costPerPage")
	}
	return &Linear{minutesPerPage: minutesPerPage, costPerPage: costPerPage}, nil
}

// Estimate sums pages, settings do not change the price yet
func (l *Linear) Estimate(pages []int, s settings.Settings) Result {
	res := Result{}
	for _, p := range pages {
		if p > 0 {
			res.Pages += p
		}
	}
	res.Minutes = float64(res.Pages) * l.minutesPerPage
	res.Amount = float64(res.Pages) * l.costPerPage
	res.Time = strconv.FormatFloat(res.Minutes, 'f', -1, 64) + "m"
	res.Cost = fmt.Sprintf("$%.2f", res.Amount)
	return res
}
