package wearable

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	SplitSeed     = 42
	testRatio     = 0.2
	forestTrees   = 100
	maxTreeDepth  = 32
	minRowsToEval = 10
)

var ErrNotEnoughRows = errors.New("not enough rows to evaluate models")

// ModelMetrics compares two weight regressors on the held out rows.
type ModelMetrics struct {
	LinearMAE float64 `json:"lr_mae"`
	ForestMAE float64 `json:"rf_mae"`
	LinearR2  float64 `json:"lr_r2"`
	ForestR2  float64 `json:"rf_r2"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

func features(r Row) []float64 {
	return []float64{float64(r.Steps), float64(r.Calories), r.Sleep, float64(r.HeartRate)}
}

// EvaluateWeightModels predicts weight from steps, calories, sleep and heart rate
// with a linear least squares fit and a random forest.
func EvaluateWeightModels(rows []Row) (ModelMetrics, error) {
	if len(rows) < minRowsToEval {
		return ModelMetrics{}, ErrNotEnoughRows
	}

	rng := rand.New(rand.NewSource(SplitSeed))
	perm := rng.Perm(len(rows))
	nTest := int(math.Ceil(float64(len(rows)) * testRatio))

	var trainX, testX [][]float64
	var trainY, testY []float64
	for i, idx := range perm {
		x, y := features(rows[idx]), rows[idx].Weight
		if i < nTest {
			testX, testY = append(testX, x), append(testY, y)
		} else {
			trainX, trainY = append(trainX, x), append(trainY, y)
		}
	}

	linear, err := fitLinear(trainX, trainY)
	if err != nil {
		return ModelMetrics{}, fmt.Errorf("fit linear model: %w", err)
	}
	forest := fitForest(trainX, trainY, forestTrees, rng)

	lrPred := make([]float64, len(testX))
	rfPred := make([]float64, len(testX))
	for i, x := range testX {
		lrPred[i] = linear.predict(x)
		rfPred[i] = forest.predict(x)
	}

	return ModelMetrics{
		LinearMAE: meanAbsError(lrPred, testY),
		ForestMAE: meanAbsError(rfPred, testY),
		LinearR2:  stat.RSquaredFrom(lrPred, testY, nil),
		ForestR2:  stat.RSquaredFrom(rfPred, testY, nil),
		TrainRows: len(trainX),
		TestRows:  len(testX),
	}, nil
}

func meanAbsError(pred, actual []float64) float64 {
	var sum float64
	for i := range pred {
		sum += math.Abs(pred[i] - actual[i])
	}
	return sum / float64(len(pred))
}

type linearModel struct {
	// coef[0] is the intercept
	coef []float64
}

func fitLinear(x [][]float64, y []float64) (*linearModel, error) {
	n, p := len(x), len(x[0])+1
	a := mat.NewDense(n, p, nil)
	for i, row := range x {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
		log.Warnf("linear model is ill conditioned: %s", err)
	}

	coef := make([]float64, p)
	for i := range coef {
		coef[i] = beta.AtVec(i)
	}
	return &linearModel{coef: coef}, nil
}

func (m *linearModel) predict(x []float64) float64 {
	y := m.coef[0]
	for j, v := range x {
		y += m.coef[j+1] * v
	}
	return y
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type randomForest struct {
	trees []*treeNode
}

// fitForest grows fully split regression trees on bootstrap samples, every feature is
// considered at each split.
func fitForest(x [][]float64, y []float64, nTrees int, rng *rand.Rand) *randomForest {
	f := &randomForest{trees: make([]*treeNode, nTrees)}
	for t := range f.trees {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		f.trees[t] = growTree(x, y, sample, 0)
	}
	return f
}

func (f *randomForest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

func growTree(x [][]float64, y []float64, idx []int, depth int) *treeNode {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	leaf := &treeNode{leaf: true, value: sum / n}
	if len(idx) < 2 || depth >= maxTreeDepth {
		return leaf
	}

	parentSSE := sumSq - sum*sum/n
	if parentSSE <= 1e-12 {
		return leaf
	}

	bestSSE := parentSSE
	bestFeature, bestPos := -1, 0
	var bestThreshold float64
	sorted := make([]int, len(idx))
	var bestSorted []int

	for f := range x[idx[0]] {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var leftSum, leftSq float64
		for k := 1; k < len(sorted); k++ {
			prev := sorted[k-1]
			leftSum += y[prev]
			leftSq += y[prev] * y[prev]
			if x[prev][f] == x[sorted[k]][f] {
				continue
			}

			nl, nr := float64(k), n-float64(k)
			rightSum, rightSq := sum-leftSum, sumSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature, bestPos = f, k
				bestThreshold = (x[prev][f] + x[sorted[k]][f]) / 2
				bestSorted = append(bestSorted[:0], sorted...)
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}

	left := append([]int(nil), bestSorted[:bestPos]...)
	right := append([]int(nil), bestSorted[bestPos:]...)
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      growTree(x, y, left, depth+1),
		right:     growTree(x, y, right, depth+1),
	}
}
