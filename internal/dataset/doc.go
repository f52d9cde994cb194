// Package dataset holds OHLCV bars in a time-indexed Table.
//
// A Table is immutable after construction: NewTable copies its input, orders
// it by date and rejects bars that break the OHLCV price ordering or repeat a
// date for one symbol. Filter applies an inclusive DateRange, Column extracts
// one numeric column by name and Partition splits a mixed table into a Panel
// keyed by symbol.
//
// LoadCSV and LoadExcel read a header row (date, symbol, open, high, low,
// close, volume) in any column order. Symbol may also be called code or
// ticker; when it is missing every row gets the symbol passed to the loader.
package dataset
