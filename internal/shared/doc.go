// Package shared holds code used across packages that belongs to no
// single layer.
//
// The testutil subpackage provides the helpers every package test uses:
//
//   - BufferedSlogHandler and NewTestLogger capture slog records so tests
//     can assert on messages and attributes.
//   - Bar fixtures (BarsFromCloses, OHLCV, RisingFallingPanel) build
//     valid OHLCV bars on consecutive days from FixtureStart.
//
// testutil depends only on the domain contracts and must never import an
// analysis package, so any package test can use it.
package shared
