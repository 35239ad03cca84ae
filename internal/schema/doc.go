// Package schema loads, resolves, and caches the versioned manifest schema
// documents embedded in the binary. A Repository resolves a requested
// version spec (exact tag, documented alias, or a version accepted as
// legacy by a newer schema) to a compiled schema descriptor. Descriptors
// are compiled lazily, once per version, and cached for the life of the
// repository.
package schema
