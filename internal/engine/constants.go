package engine

// History buffer geometry.
const (
	// HistorySize is the number of taps kept per channel.
	HistorySize = 5

	// sincCentreTap is the history index the sinc kernel centres on.
	sincCentreTap = 2
)

// Position tracking constants.
const (
	// resetPosition is the sub-sample position of a fresh state. A value of
	// 1.0 makes the first output consume one input sample before evaluating.
	resetPosition = 1.0

	// identityRatio enables the copy fast path when the position is at reset.
	identityRatio = 1.0

	// Ratios outside [minRatio, maxRatio], and NaN, are clamped before use.
	minRatio = 1e-9
	maxRatio = 1e6
)

// Kernel constants.
const (
	half         = 0.5
	onePointFive = 1.5
	two          = 2.0
	twoPointFive = 2.5
	oneSixth     = 1.0 / 6.0
	twoThirds    = 2.0 / 3.0

	// Lagrange denominators for nodes 0..4: prod_{j!=k}(k-j).
	lagrangeOuter = 24.0
	lagrangeInner = 6.0
	lagrangeMid   = 4.0

	// Weight sums smaller than this are treated as zero by the sinc kernel.
	sincWeightEpsilon = 1e-12
)
