package embed

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// Components is the dimensionality of the output layout.
	Components = 2

	exaggeration     = 12.0
	exaggerationIter = 250
	initialMomentum  = 0.5
	finalMomentum    = 0.8
	minGain          = 0.01
	initialScale     = 1e-4
	minAffinity      = 1e-12

	perplexityTol   = 1e-5
	perplexityTries = 50
)

// ErrEmpty is returned when there are no rows to embed.
var ErrEmpty = errors.New("embed: no samples")

// Options configures an Embedder.
type Options struct {
	Seed         uint64
	Perplexity   float64
	Iterations   int
	LearningRate float64
}

// DefaultOptions returns the usual t-SNE parameters with seed 42.
func DefaultOptions() Options {
	return Options{
		Seed:         42,
		Perplexity:   30,
		Iterations:   1000,
		LearningRate: 200,
	}
}

// Embedder maps N x D feature matrices to N x 2 layouts in [0,1]^2.
type Embedder struct {
	opts Options
}

// New creates an Embedder. Zero fields in opts fall back to DefaultOptions.
func New(opts Options) *Embedder {
	def := DefaultOptions()
	if opts.Perplexity <= 0 {
		opts.Perplexity = def.Perplexity
	}
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = def.LearningRate
	}
	return &Embedder{opts: opts}
}

// Embed returns an N x 2 matrix of coordinates in [0,1], one row per row
// of features. A single sample is placed at the origin.
func (e *Embedder) Embed(features mat.Matrix) (*mat.Dense, error) {
	n, d := features.Dims()
	if n == 0 || d == 0 {
		return nil, ErrEmpty
	}
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if v := features.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("embed: non-finite feature at (%d,%d)", i, j)
			}
		}
	}
	if n == 1 {
		return mat.NewDense(1, Components, nil), nil
	}

	x := MinMaxColumns(features)
	p := e.affinities(x)
	y := e.optimize(p, n)

	out := mat.NewDense(n, Components, y)
	return MinMaxColumns(out), nil
}

// perplexity clamps the configured value so that small inputs still have
// a well-posed calibration.
func (e *Embedder) perplexity(n int) float64 {
	return math.Max(1, math.Min(e.opts.Perplexity, float64(n-1)/3))
}

// affinities returns the symmetric joint probability matrix P, flattened
// row-major.
func (e *Embedder) affinities(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	dist := squaredDistances(x)
	logU := math.Log(e.perplexity(n))

	p := make([]float64, n*n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		calibrateRow(dist[i*n:(i+1)*n], i, logU, row)
		copy(p[i*n:(i+1)*n], row)
	}

	// Symmetrize and normalize.
	scale := 1 / (2 * float64(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := (p[i*n+j] + p[j*n+i]) * scale
			v = math.Max(v, minAffinity)
			p[i*n+j] = v
			p[j*n+i] = v
		}
		p[i*n+i] = 0
	}
	return p
}

// calibrateRow binary-searches the Gaussian precision for sample i so the
// conditional distribution has entropy logU, writing it to out.
func calibrateRow(dist []float64, i int, logU float64, out []float64) {
	// Shifting by the nearest distance keeps exp() from underflowing and
	// changes neither the normalized row nor its entropy.
	dmin := math.Inf(1)
	for j, v := range dist {
		if j != i && v < dmin {
			dmin = v
		}
	}

	beta := 1.0
	betaMin, betaMax := math.Inf(-1), math.Inf(1)

	for try := 0; try < perplexityTries; try++ {
		var sum, weighted float64
		for j, v := range dist {
			if j == i {
				out[j] = 0
				continue
			}
			w := math.Exp(-(v - dmin) * beta)
			out[j] = w
			sum += w
			weighted += (v - dmin) * w
		}
		h := math.Log(sum) + beta*weighted/sum

		diff := h - logU
		if math.Abs(diff) < perplexityTol {
			break
		}
		if diff > 0 {
			betaMin = beta
			if math.IsInf(betaMax, 1) {
				beta *= 2
			} else {
				beta = (beta + betaMax) / 2
			}
		} else {
			betaMax = beta
			if math.IsInf(betaMin, -1) {
				beta /= 2
			} else {
				beta = (beta + betaMin) / 2
			}
		}
	}

	floats.Scale(1/floats.Sum(out), out)
}

// optimize runs gradient descent on the layout and returns it flattened
// row-major as n x Components.
func (e *Embedder) optimize(p []float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(e.opts.Seed, e.opts.Seed^0x9e3779b97f4a7c15))

	y := make([]float64, n*Components)
	for i := range y {
		y[i] = rng.NormFloat64() * initialScale
	}

	update := make([]float64, len(y))
	gains := make([]float64, len(y))
	for i := range gains {
		gains[i] = 1
	}
	grad := make([]float64, len(y))
	num := make([]float64, n*n)

	for iter := 0; iter < e.opts.Iterations; iter++ {
		exag, momentum := 1.0, finalMomentum
		if iter < exaggerationIter {
			exag, momentum = exaggeration, initialMomentum
		}

		// Student-t kernel.
		var sumQ float64
		for i := 0; i < n; i++ {
			num[i*n+i] = 0
			for j := i + 1; j < n; j++ {
				dx := y[i*Components] - y[j*Components]
				dy := y[i*Components+1] - y[j*Components+1]
				q := 1 / (1 + dx*dx + dy*dy)
				num[i*n+j] = q
				num[j*n+i] = q
				sumQ += 2 * q
			}
		}
		sumQ = math.Max(sumQ, minAffinity)

		for i := 0; i < n; i++ {
			var gx, gy float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				q := num[i*n+j]
				m := (exag*p[i*n+j] - q/sumQ) * q
				gx += m * (y[i*Components] - y[j*Components])
				gy += m * (y[i*Components+1] - y[j*Components+1])
			}
			grad[i*Components] = 4 * gx
			grad[i*Components+1] = 4 * gy
		}

		for k := range y {
			if (grad[k] > 0) != (update[k] > 0) {
				gains[k] += 0.2
			} else {
				gains[k] *= 0.8
			}
			gains[k] = math.Max(gains[k], minGain)
			update[k] = momentum*update[k] - e.opts.LearningRate*gains[k]*grad[k]
			y[k] += update[k]
		}

		center(y, n)
	}
	return y
}

func center(y []float64, n int) {
	for c := 0; c < Components; c++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += y[i*Components+c]
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			y[i*Components+c] -= mean
		}
	}
}

func squaredDistances(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		ri := x.RawRowView(i)
		for j := i + 1; j < n; j++ {
			rj := x.RawRowView(j)
			var s float64
			for k := range ri {
				d := ri[k] - rj[k]
				s += d * d
			}
			dist[i*n+j] = s
			dist[j*n+i] = s
		}
	}
	return dist
}

// MinMaxColumns returns a copy of m with every column rescaled to [0,1].
// Constant columns become zero.
func MinMaxColumns(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.DenseCopyOf(m)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, out)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		for i := range col {
			if span == 0 {
				col[i] = 0
			} else {
				col[i] = (col[i] - lo) / span
			}
		}
		out.SetCol(j, col)
	}
	return out
}
