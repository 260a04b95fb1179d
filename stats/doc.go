// Package stats computes the aggregate layer of a parse: totals by
// summation over the document tree, narration duration estimates,
// throughput and memory measurements, and the structural confidence
// score.
package stats
