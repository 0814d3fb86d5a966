// Package harness runs known-answer scenarios against the cipher machine.
//
// A scenario is a YAML document holding a complete machine configuration
// (wirings inline or by preset name), an input message, the expected
// output, and optionally a set of pinned trace steps. The harness builds the
// machine, runs a traced transform, and reports pass/fail plus the
// per-character signal trace. Traces serialize to canonical JSON (sorted
// keys, NFC-normalized strings) so golden-file comparisons are
// byte-deterministic across platforms.
package harness
