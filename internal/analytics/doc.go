// Package analytics contains the numeric engines behind every report:
// OLS trend coefficients, start-relative profit, dispersion of column
// differences and the reconstruction of intra-bar price distributions
// from aggregate OHLCV bars.
//
// All functions are pure. They read their input slices, never modify
// them, and keep no state between calls. The only source of randomness
// is the NormalSource passed to the statistical price functions, so a
// seeded *rand.Rand reproduces a sample exactly.
package analytics
