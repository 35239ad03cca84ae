// Package validate implements the two-layer manifest validation model:
// structural schema-shape checking against a resolved schema version,
// followed by cross-field semantic rules. Both layers report every
// violation they find as error-catalog entries inside the result; only
// engine misconfiguration (an uncompilable schema, an unencodable
// document) surfaces as a Go error.
//
// Version compatibility is handled here too: a manifest authored against
// an older spec version validates under the newest schema that declares
// that version as accepted legacy, and the result's ResolvedSchemaVersion
// always names the schema actually applied.
package validate
