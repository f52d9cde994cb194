// Package analyser binds the analytics engines to a dataset.Table.
//
// InstrumentAnalyser answers questions about a single instrument: its
// start-relative profits, where a price ranks against the synthetic
// price distribution of a date range, the normalized trend of a column
// and the buy/sell split of its volume.
//
// PanelAnalyser partitions a multi-instrument table by symbol and folds
// one engine call per instrument into a domain.MetricSeries. Instruments
// are analysed concurrently with a bounded errgroup. A failing
// instrument is recorded as NaN with its error message and never aborts
// the rest of the panel.
package analyser
