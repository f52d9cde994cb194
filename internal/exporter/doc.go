// Package exporter writes analysis results to disk.
//
// CSVWriter produces one CSV per report: metric series keyed by symbol,
// market info, instrument info, price rank and trend reports. Relative
// paths land in the configured reports directory. Files start with a
// UTF-8 BOM so spreadsheet tools detect the encoding.
//
// WriteWorkbook collects a market summary and any number of metric
// series into a single XLSX workbook.
package exporter
