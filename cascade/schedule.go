package cascade

// scheduleParams holds the interpolation endpoints the schedule walks
// between, level 0 taking the coarse end and the last level the fine end.
type scheduleParams struct {
	coarseCurvature  float64
	fineCurvature    float64
	startTemperature float64
	endTemperature   float64
	startDropout     float64
	endDropout       float64
	maxHeads         int
}

func defaultScheduleParams() scheduleParams {
	return scheduleParams{
		coarseCurvature:  -0.25,
		fineCurvature:    -1.0,
		startTemperature: 1.0,
		endTemperature:   0.5,
		startDropout:     0.1,
		endDropout:       0.0,
		maxHeads:         8,
	}
}

// ScheduleOption adjusts the generated level schedule.
type ScheduleOption func(*scheduleParams)

// WithCurvatureRange sets the coarse and fine curvature endpoints.
func WithCurvatureRange(coarse, fine float64) ScheduleOption {
	return func(p *scheduleParams) {
		p.coarseCurvature = coarse
		p.fineCurvature = fine
	}
}

// WithTemperatureRange sets the first and last level temperatures.
func WithTemperatureRange(start, end float64) ScheduleOption {
	return func(p *scheduleParams) {
		p.startTemperature = start
		p.endTemperature = end
	}
}

// WithDropoutRange sets the first and last level dropout rates.
func WithDropoutRange(start, end float64) ScheduleOption {
	return func(p *scheduleParams) {
		p.startDropout = start
		p.endDropout = end
	}
}

// WithMaxHeads caps the head-doubling progression.
func WithMaxHeads(n int) ScheduleOption {
	return func(p *scheduleParams) {
		p.maxHeads = n
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// largestPowerOfTwoDividing returns the largest power of two that divides
// dim, which bounds how many heads can evenly split the space dimensions.
func largestPowerOfTwoDividing(dim int) int {
	p := 1
	for dim%(p*2) == 0 {
		p *= 2
	}
	return p
}

// Schedule generates a coarse-to-fine level progression: curvature,
// temperature, and dropout interpolate linearly between their endpoints
// while head counts double per level, capped by the configured maximum and
// by the largest power of two dividing dim. A single-level schedule takes
// the fine endpoints, since its one level is the finest.
func Schedule(dim, numLevels int, opts ...ScheduleOption) []LevelConfig {
	if numLevels <= 0 {
		return nil
	}
	p := defaultScheduleParams()
	for _, opt := range opts {
		opt(&p)
	}

	headCap := p.maxHeads
	if divCap := largestPowerOfTwoDividing(dim); divCap < headCap {
		headCap = divCap
	}
	if headCap < 1 {
		headCap = 1
	}

	levels := make([]LevelConfig, numLevels)
	heads := 1
	for i := range levels {
		t := 1.0
		if numLevels > 1 {
			t = float64(i) / float64(numLevels-1)
		}
		levels[i] = LevelConfig{
			Curvature:   lerp(p.coarseCurvature, p.fineCurvature, t),
			NumHeads:    heads,
			Dropout:     lerp(p.startDropout, p.endDropout, t),
			Temperature: lerp(p.startTemperature, p.endTemperature, t),
		}
		if heads*2 <= headCap {
			heads *= 2
		}
	}
	return levels
}
