// Package analyzer computes the retail metrics over a transactions.Dataset.
//
// Every function here is a pure read of the dataset passed to it: nothing is
// cached between calls and nothing is written back, so the same dataset can
// be queried from several goroutines at once.
package analyzer
