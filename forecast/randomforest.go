package forecast

import (
	"time"

	"demandcast/models"
)

// RandomForest is a bootstrap-aggregated ensemble of regression trees over
// engineered lag, rolling-window and calendar features. The bootstrap
// sampler is a seeded LCG, so a fixed seed yields a fully deterministic
// forest.
type RandomForest struct {
	MaxTrees int
	MaxDepth int
	Seed     int64
}

// NewRandomForest returns a forest with up to 10 trees of depth 5.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{MaxTrees: 10, MaxDepth: 5, Seed: seed}
}

func (f *RandomForest) Name() string {
	return "random_forest"
}

// featureWindow is the number of leading observations consumed by the lag
// features; the first usable training row is at this index.
const featureWindow = 7

func (f *RandomForest) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	n := len(series)
	if n < 14 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 14, Got: n}
	}
	if len(dates) != n {
		dates = synthesizeDates(n)
	}

	features := make([][]float64, 0, n-featureWindow)
	targets := make([]float64, 0, n-featureWindow)
	for i := featureWindow; i < n; i++ {
		features = append(features, demandFeatures(series[:i], dates[i]))
		targets = append(targets, series[i])
	}
	if len(targets) < 2 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: featureWindow + 2, Got: n}
	}

	treeCount := n / 3
	if treeCount > f.MaxTrees {
		treeCount = f.MaxTrees
	}
	if treeCount < 1 {
		treeCount = 1
	}

	trees := make([]*treeNode, treeCount)
	for t := 0; t < treeCount; t++ {
		// Each tree gets its own deterministic bootstrap sample.
		rng := NewLCG(f.Seed + int64(t))
		sampleX := make([][]float64, len(targets))
		sampleY := make([]float64, len(targets))
		for i := range targets {
			j := rng.Intn(len(targets))
			sampleX[i] = features[j]
			sampleY[i] = targets[j]
		}
		trees[t] = buildTree(sampleX, sampleY, 0, f.MaxDepth)
	}

	// In-sample fit of the forest, for the confidence score.
	fitted := make([]float64, len(targets))
	for i := range features {
		fitted[i] = forestPredict(trees, features[i])
	}
	mape := meanAbsolutePercentageError(targets, fitted)

	// Roll the forecast forward: each predicted day joins the known values
	// so later lags and rolling windows see it.
	extended := make([]float64, n, n+horizon)
	copy(extended, series)
	lastDate := dates[n-1]
	forecast := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		day := lastDate.AddDate(0, 0, h+1)
		pred := clampDemand(forestPredict(trees, demandFeatures(extended, day)))
		forecast[h] = pred
		extended = append(extended, pred)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    clampConfidence(1 - mape/100),
		Metadata: map[string]interface{}{
			"trees":     treeCount,
			"max_depth": f.MaxDepth,
			"mape":      mape,
		},
	}, nil
}

// demandFeatures builds the feature vector for the day following history:
// lags 1/2/3/7, 3- and 7-day moving averages, calendar fields, 3- and 7-day
// trend slopes, 3- and 7-day volatility.
func demandFeatures(history []float64, day time.Time) []float64 {
	n := len(history)
	lag := func(k int) float64 {
		if n >= k {
			return history[n-k]
		}
		return 0
	}
	tail := func(k int) []float64 {
		if n < k {
			return history
		}
		return history[n-k:]
	}
	return []float64{
		lag(1),
		lag(2),
		lag(3),
		lag(7),
		mean(tail(3)),
		mean(tail(7)),
		float64(day.Weekday()),
		float64(day.Day()),
		float64(day.Month()),
		slopeOf(tail(3)),
		slopeOf(tail(7)),
		popStdDev(tail(3)),
		popStdDev(tail(7)),
	}
}

// slopeOf is the average step across the window.
func slopeOf(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	return (window[len(window)-1] - window[0]) / float64(len(window)-1)
}

func synthesizeDates(n int) []time.Time {
	dates := make([]time.Time, n)
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -n+1)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// --- regression tree ---

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

const minSplitSize = 4

// buildTree grows a regression tree greedily, splitting on the feature and
// threshold that maximize variance reduction. Leaves store the mean target.
func buildTree(features [][]float64, targets []float64, depth, maxDepth int) *treeNode {
	if depth >= maxDepth || len(targets) < minSplitSize || popVariance(targets) == 0 {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	parentVar := popVariance(targets)
	for j := range features[0] {
		for _, row := range features {
			threshold := row[j]
			leftY, rightY := partitionTargets(features, targets, j, threshold)
			if len(leftY) == 0 || len(rightY) == 0 {
				continue
			}
			weighted := (float64(len(leftY))*popVariance(leftY) + float64(len(rightY))*popVariance(rightY)) / float64(len(targets))
			gain := parentVar - weighted
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = j, threshold, gain
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{leaf: true, value: mean(targets)}
	}

	leftX, leftY := make([][]float64, 0, len(targets)), make([]float64, 0, len(targets))
	rightX, rightY := make([][]float64, 0, len(targets)), make([]float64, 0, len(targets))
	for i, row := range features {
		if row[bestFeature] <= bestThreshold {
			leftX, leftY = append(leftX, row), append(leftY, targets[i])
		} else {
			rightX, rightY = append(rightX, row), append(rightY, targets[i])
		}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      buildTree(leftX, leftY, depth+1, maxDepth),
		right:     buildTree(rightX, rightY, depth+1, maxDepth),
	}
}

func partitionTargets(features [][]float64, targets []float64, feature int, threshold float64) (left, right []float64) {
	for i, row := range features {
		if row[feature] <= threshold {
			left = append(left, targets[i])
		} else {
			right = append(right, targets[i])
		}
	}
	return left, right
}

func (t *treeNode) predict(x []float64) float64 {
	if t.leaf {
		return t.value
	}
	if x[t.feature] <= t.threshold {
		return t.left.predict(x)
	}
	return t.right.predict(x)
}

func forestPredict(trees []*treeNode, x []float64) float64 {
	total := 0.0
	for _, tree := range trees {
		total += tree.predict(x)
	}
	return total / float64(len(trees))
}
