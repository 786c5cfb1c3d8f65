// Package report turns a simulation result into something a person or another
// program can read: CSV and JSON series, a summary with peak and attack-rate
// statistics, a Markdown digest and a four-panel PNG chart.
//
// Nothing in this package influences the computation. Every function reads a
// finished *domain.Result.
package report
