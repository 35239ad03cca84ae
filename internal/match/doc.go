// Package match scores a candidate agent manifest against a task's
// declared capability requirements. Matching is independent of validation:
// it assumes manifests are already validated but tolerates invalid ones by
// treating absent or malformed capability declarations as non-matches.
//
// The matcher's caller is an external router that relies on full
// determinism: identical (required, manifest) inputs always produce
// byte-identical results, with missing and warning entries ordered by the
// requirement list.
package match
