package gridcalc

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// ErrUnknownFunction is returned when a formula calls a function that is not
// in the library.
var ErrUnknownFunction = errors.New("unknown function")

// FunctionFunc computes an aggregate over the flattened numeric arguments of
// a call. xs may be empty.
type FunctionFunc func(xs []float64) (float64, error)

var functions = map[string]FunctionFunc{
	"SUM":     fnSum,
	"AVG":     fnAverage,
	"AVERAGE": fnAverage,
	"MIN":     fnMin,
	"MAX":     fnMax,
	"COUNT":   fnCount,
	"MEDIAN":  fnMedian,
	"MODE":    fnMode,
	"STDEV":   fnStdev,
	"RANGE":   fnRange,
	"PRODUCT": fnProduct,
	"ABS":     fnAbs,
	"SQRT":    fnSqrt,
	"MEAN":    fnGeometricMean,
}

// LookupFunction finds a library function by name, ignoring case.
func LookupFunction(name string) (FunctionFunc, error) {
	fn, ok := functions[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFunction)
	}
	return fn, nil
}

// ApplyFunction calls the named function on xs.
func ApplyFunction(name string, xs []float64) (float64, error) {
	fn, err := LookupFunction(name)
	if err != nil {
		return 0, err
	}
	v, err := fn(xs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToUpper(name), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %w", strings.ToUpper(name), ErrNotFinite)
	}
	return v, nil
}

// FunctionNames returns the names of all library functions, sorted.
func FunctionNames() []string {
	names := maps.Keys(functions)
	sort.Strings(names)
	return names
}

func fnSum(xs []float64) (float64, error) {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum, nil
}

func fnAverage(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	sum, _ := fnSum(xs)
	return sum / float64(len(xs)), nil
}

func fnMin(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Min(m, x)
	}
	return m, nil
}

func fnMax(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Max(m, x)
	}
	return m, nil
}

func fnCount(xs []float64) (float64, error) {
	return float64(len(xs)), nil
}

func fnMedian(xs []float64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, nil
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// fnMode returns the most frequent value; among equally frequent values the
// smallest wins.
func fnMode(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	freq := make(map[float64]int, len(xs))
	for _, x := range xs {
		freq[x]++
	}
	mode, best := xs[0], 0
	for v, n := range freq {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode, nil
}

// fnStdev is the sample standard deviation (n-1 denominator).
func fnStdev(xs []float64) (float64, error) {
	n := len(xs)
	if n <= 1 {
		return 0, nil
	}
	avg, _ := fnAverage(xs)
	sumsq := 0.0
	for _, x := range xs {
		sumsq += (x - avg) * (x - avg)
	}
	return math.Sqrt(sumsq / float64(n-1)), nil
}

func fnRange(xs []float64) (float64, error) {
	lo, _ := fnMin(xs)
	hi, _ := fnMax(xs)
	return hi - lo, nil
}

func fnProduct(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	prod := 1.0
	for _, x := range xs {
		prod *= x
	}
	return prod, nil
}

func fnAbs(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	return math.Abs(xs[0]), nil
}

func fnSqrt(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	return math.Sqrt(xs[0]), nil
}

// fnGeometricMean backs MEAN. It is the geometric mean product^(1/n), not
// the arithmetic mean AVG computes; MEAN has always behaved this way.
func fnGeometricMean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	prod, _ := fnProduct(xs)
	return math.Pow(prod, 1/float64(len(xs))), nil
}
