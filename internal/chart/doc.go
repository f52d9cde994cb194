// Package chart renders instrument tables as interactive HTML charts.
//
// PriceChart draws close, high and low lines with a scatter of closes
// sized by normalized volume and, optionally, one synthetic intrabar
// price per bar. RegressionChart splits one column into
// consecutive slices and overlays each slice's OLS line on its points.
// Both return a *charts.Line whose Render method writes a standalone
// HTML page to any io.Writer.
package chart
