package forecast

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"demandcast/models"
)

// ARIMA is a simplified autoregressive integrated moving-average model.
// Orders are chosen heuristically from the series length and a variance
// stability check; the AR fit is ordinary least squares on lagged
// differenced values and the MA terms are derived from the AR residuals.
type ARIMA struct{}

func NewARIMA() *ARIMA {
	return &ARIMA{}
}

func (f *ARIMA) Name() string {
	return "arima"
}

func (f *ARIMA) Forecast(series []float64, dates []time.Time, horizon int) (models.AlgorithmForecast, error) {
	n := len(series)
	if n < 20 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: 20, Got: n}
	}

	d := 2
	if varianceStable(series) {
		d = 1
	}
	p := n / 10
	if p > 3 {
		p = 3
	}
	q := n / 15
	if q > 2 {
		q = 2
	}

	stationary := series
	for i := 0; i < d; i++ {
		stationary = firstDifferences(stationary)
	}
	if len(stationary) < p+q+2 {
		return models.AlgorithmForecast{}, &InsufficientDataError{Algorithm: f.Name(), Needed: p + q + 2 + d, Got: n}
	}

	var (
		arCoeffs  []float64
		maCoeffs  []float64
		residuals []float64
	)
	constantDiff := popVariance(stationary) == 0
	if constantDiff {
		// Differencing flattened the series completely; the constant
		// difference simply continues and there is nothing to fit.
		residuals = make([]float64, len(stationary))
	} else {
		var err error
		arCoeffs, err = f.fitAR(stationary, p)
		if err != nil {
			return models.AlgorithmForecast{}, err
		}
		residuals = arResiduals(stationary, arCoeffs)
		maCoeffs = f.fitMA(residuals, q)
	}

	// Forecast in differenced space; future shocks are zero.
	recent := append([]float64(nil), stationary...)
	recentResiduals := append([]float64(nil), residuals...)
	diffForecast := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		v := 0.0
		if constantDiff {
			v = stationary[0]
		}
		for i, c := range arCoeffs {
			if len(recent) > i {
				v += c * recent[len(recent)-1-i]
			}
		}
		for i, c := range maCoeffs {
			if len(recentResiduals) > i {
				v += c * recentResiduals[len(recentResiduals)-1-i]
			}
		}
		diffForecast[h] = v
		recent = append(recent, v)
		recentResiduals = append(recentResiduals, 0)
	}

	forecast := integrate(series, diffForecast, d)
	for i := range forecast {
		forecast[i] = clampDemand(forecast[i])
	}

	// Signal-to-noise: how much of the series variance the model absorbed.
	seriesVar := popVariance(series)
	confidence := minConfidence
	if seriesVar > 0 {
		confidence = clampConfidence(1 - popVariance(residuals)/seriesVar)
	}

	return models.AlgorithmForecast{
		AlgorithmName: f.Name(),
		Forecast:      forecast,
		Confidence:    confidence,
		Metadata:      map[string]interface{}{"p": p, "d": d, "q": q},
	}, nil
}

// varianceStable compares the variance of the two halves of the series. A
// ratio close to 1 suggests the series is already near-stationary.
func varianceStable(series []float64) bool {
	half := len(series) / 2
	v1 := popVariance(series[:half])
	v2 := popVariance(series[half:])
	if v1 == 0 && v2 == 0 {
		return true
	}
	if v1 == 0 || v2 == 0 {
		return false
	}
	ratio := v2 / v1
	return ratio > 0.5 && ratio < 2
}

// fitAR estimates AR coefficients by least squares on lagged values.
func (f *ARIMA) fitAR(stationary []float64, p int) ([]float64, error) {
	if p == 0 {
		return nil, nil
	}
	rows := len(stationary) - p
	if rows < p+1 {
		return nil, &InsufficientDataError{Algorithm: f.Name(), Needed: 2*p + 1, Got: len(stationary)}
	}

	x := mat.NewDense(rows, p, nil)
	y := mat.NewVecDense(rows, nil)
	for t := 0; t < rows; t++ {
		for j := 0; j < p; j++ {
			x.Set(t, j, stationary[t+p-1-j])
		}
		y.SetVec(t, stationary[t+p])
	}

	var qr mat.QR
	qr.Factorize(x)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, y); err != nil {
		return nil, &NumericInstabilityError{Algorithm: f.Name(), Reason: "singular AR design matrix", Err: err}
	}

	out := make([]float64, p)
	for i := range out {
		out[i] = coef.AtVec(i)
	}
	return out, nil
}

// arResiduals computes one-step AR residuals over the stationary series.
func arResiduals(stationary, arCoeffs []float64) []float64 {
	p := len(arCoeffs)
	residuals := make([]float64, 0, len(stationary)-p)
	for t := p; t < len(stationary); t++ {
		pred := 0.0
		for j, c := range arCoeffs {
			pred += c * stationary[t-1-j]
		}
		residuals = append(residuals, stationary[t]-pred)
	}
	return residuals
}

// fitMA derives simplified MA coefficients by regressing each residual on
// its own lags. Falls back to zero coefficients when the fit is not
// possible; the MA part is a refinement, not a requirement.
func (f *ARIMA) fitMA(residuals []float64, q int) []float64 {
	if q == 0 || len(residuals) < q*2+2 {
		return make([]float64, q)
	}

	rows := len(residuals) - q
	x := mat.NewDense(rows, q, nil)
	y := mat.NewVecDense(rows, nil)
	for t := 0; t < rows; t++ {
		for j := 0; j < q; j++ {
			x.Set(t, j, residuals[t+q-1-j])
		}
		y.SetVec(t, residuals[t+q])
	}

	var qr mat.QR
	qr.Factorize(x)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, y); err != nil {
		return make([]float64, q)
	}

	out := make([]float64, q)
	for i := range out {
		out[i] = coef.AtVec(i)
	}
	return out
}

// integrate reverses d rounds of differencing, anchoring each level at the
// last observed value of the corresponding differenced series.
func integrate(original, diffForecast []float64, d int) []float64 {
	out := append([]float64(nil), diffForecast...)
	for level := d; level >= 1; level-- {
		// Last value of the series differenced (level-1) times.
		tail := original
		for i := 0; i < level-1; i++ {
			tail = firstDifferences(tail)
		}
		last := tail[len(tail)-1]
		for i := range out {
			last += out[i]
			out[i] = last
		}
	}
	return out
}
