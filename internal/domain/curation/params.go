package curation

// Params defines all configurable parameters for the curation algorithm
type Params struct {
	// Selection limits
	DayCap  int
	BookCap int

	// Score bonuses
	MilestoneBonus int
	CaptionBonus   int
	LabelBonus     int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	DayCap  int
	BookCap int

	MilestoneBonus int
	CaptionBonus   int
	LabelBonus     int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		DayCap:  3,
		BookCap: 20,

		MilestoneBonus: 50,
		CaptionBonus:   30,
		LabelBonus:     10,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero or negative fields keep their default value.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.DayCap > 0 {
		params.DayCap = config.DayCap
	}
	if config.BookCap > 0 {
		params.BookCap = config.BookCap
	}
	if config.MilestoneBonus > 0 {
		params.MilestoneBonus = config.MilestoneBonus
	}
	if config.CaptionBonus > 0 {
		params.CaptionBonus = config.CaptionBonus
	}
	if config.LabelBonus > 0 {
		params.LabelBonus = config.LabelBonus
	}

	return params
}
