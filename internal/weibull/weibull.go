package weibull

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"wind_assess/internal/model"
)

const (
	// minSamples is the smallest speed sample a fit will accept.
	minSamples = 2
	// speedEpsilon is the clip floor applied before taking logs.
	speedEpsilon = 1e-6
	// maxIterations bounds the Newton iteration on the shape parameter.
	maxIterations = 100
	// tolerance is the Newton step size below which the fit is converged.
	tolerance = 1e-10
)

// Fit estimates the two-parameter Weibull distribution (shape k, scale A)
// of a wind speed series by maximum likelihood. Negative and NaN speeds are
// dropped first; values below speedEpsilon are clipped to it.
func Fit(series model.PointSeries) (model.WeibullFit, error) {
	speeds := retained(series.Speed)
	if len(speeds) < minSamples {
		return model.WeibullFit{}, model.ErrInsufficientData
	}
	if allIdentical(speeds) {
		return model.WeibullFit{}, model.ErrDegenerateDistribution
	}

	k, err := solveShape(speeds)
	if err != nil {
		return model.WeibullFit{}, err
	}

	// A = (mean of v^k)^(1/k)
	sumPow := 0.0
	for _, v := range speeds {
		sumPow += math.Pow(v, k)
	}
	a := math.Pow(sumPow/float64(len(speeds)), 1/k)

	return model.WeibullFit{K: k, A: a}, nil
}

// Distribution returns the gonum distribution for a fit, for PDF/CDF and
// quantile queries.
func Distribution(fit model.WeibullFit) distuv.Weibull {
	return distuv.Weibull{K: fit.K, Lambda: fit.A}
}

// solveShape finds the root of the MLE shape equation
//
//	g(k) = sum(v^k ln v)/sum(v^k) - 1/k - mean(ln v)
//
// by Newton iteration, seeded with the moment-matching approximation
// k = (sigma/mu)^-1.086.
func solveShape(speeds []float64) (float64, error) {
	mean, std := stat.MeanStdDev(speeds, nil)
	k := math.Pow(std/mean, -1.086)
	if math.IsNaN(k) || k <= 0 {
		k = 1
	}

	logs := make([]float64, len(speeds))
	meanLog := 0.0
	for i, v := range speeds {
		logs[i] = math.Log(v)
		meanLog += logs[i]
	}
	meanLog /= float64(len(speeds))

	for iter := 0; iter < maxIterations; iter++ {
		var sumPow, sumPowLog, sumPowLog2 float64
		for i, v := range speeds {
			p := math.Pow(v, k)
			sumPow += p
			sumPowLog += p * logs[i]
			sumPowLog2 += p * logs[i] * logs[i]
		}

		g := sumPowLog/sumPow - 1/k - meanLog
		gPrime := (sumPowLog2*sumPow-sumPowLog*sumPowLog)/(sumPow*sumPow) + 1/(k*k)

		step := g / gPrime
		k -= step
		if k <= 0 {
			// Newton overshoot below the valid domain, pull back
			k = tolerance
		}

		if math.Abs(step) < tolerance {
			return k, nil
		}
	}
	return 0, model.ErrNoConvergence
}

func retained(speeds []float64) []float64 {
	out := make([]float64, 0, len(speeds))
	for _, v := range speeds {
		if math.IsNaN(v) || v < 0 {
			continue
		}
		if v < speedEpsilon {
			v = speedEpsilon
		}
		out = append(out, v)
	}
	return out
}

func allIdentical(speeds []float64) bool {
	for _, v := range speeds[1:] {
		if v != speeds[0] {
			return false
		}
	}
	return true
}
