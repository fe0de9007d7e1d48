// Package diag defines the diagnostic model shared by the header generator.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while walking a resolved unit.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Rendering lives in internal/diagfmt. Orchestration of multiple units lives in
// internal/pipeline.
//
// # Severities
//
// SevWarning marks a recoverable finding: one item was left out of the header
// and the walk went on. SevError marks a fatal finding: generation of the
// current unit stopped and no header is written for it. Fatal conditions are
// returned as Go errors by the producer; the pipeline records them in the
// unit's Bag so every finding reaches the operator through one channel.
//
// # Emitting diagnostics
//
// Producers receive a Reporter by injection. No package-level sink exists, so
// units processed in parallel never interleave their findings. BagReporter
// collects into a Bag; MultiReporter fans out; DedupReporter filters repeats.
package diag
