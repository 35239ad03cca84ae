package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed assets/*.schema.json
var assetsFS embed.FS

// VersionPrefix is the namespace prefix tolerated (and stripped) on
// apiVersion values, e.g. "agentspec.dev/v1.2".
const VersionPrefix = "agentspec.dev/"

// ErrUnsupportedVersion is returned by Resolve when a version spec matches
// no published schema, no alias, and no accepted legacy version.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// release describes one published schema version and the older versions it
// explicitly accepts without modification.
type release struct {
	version        string
	asset          string
	acceptedLegacy []string
}

// releases lists every published schema, oldest first. Newer releases must
// only ever widen acceptedLegacy (monotonic addition, no silent narrowing).
// "0.9" is the retired pre-release tag whose schema no longer ships; every
// published release accepts it, so it always resolves to the newest schema.
var releases = []release{
	{version: "1.0", asset: "assets/manifest-v1.0.schema.json", acceptedLegacy: []string{"0.9"}},
	{version: "1.1", asset: "assets/manifest-v1.1.schema.json", acceptedLegacy: []string{"0.9", "1.0"}},
	{version: "1.2", asset: "assets/manifest-v1.2.schema.json", acceptedLegacy: []string{"0.9", "1.0", "1.1"}},
}

// aliases maps documented version aliases to concrete release versions.
var aliases = map[string]string{
	"latest": "1.2",
	"stable": "1.1",
}

// Descriptor is a compiled, cached schema for one published version.
type Descriptor struct {
	Version        string
	Schema         *jsonschema.Schema
	AcceptedLegacy []string
}

// AcceptsLegacy reports whether this schema declares the given normalized
// version tag as an accepted legacy version.
func (d *Descriptor) AcceptsLegacy(tag string) bool {
	for _, v := range d.AcceptedLegacy {
		if v == tag {
			return true
		}
	}
	return false
}

// Resolution is the outcome of resolving one version spec. The embedded
// Descriptor is shared and cached; Requested retains the caller's
// normalized tag for reporting, and Legacy reports whether the manifest
// version was accepted by a newer schema.
type Resolution struct {
	*Descriptor
	Requested string
	Legacy    bool
}

// Repository resolves version specs to compiled schema descriptors. It is
// constructed explicitly by the hosting process and passed by reference to
// the validator, so cache lifetime is visible and tests can use isolated
// instances. Safe for concurrent use.
type Repository struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// cacheEntry compiles its schema at most once. Concurrent requesters for
// the same missing key share the sync.Once, so a key is only ever populated
// by a single writer.
type cacheEntry struct {
	once sync.Once
	desc *Descriptor
	err  error
}

// NewRepository returns an empty repository. Schemas compile lazily on
// first resolution.
func NewRepository() *Repository {
	return &Repository{cache: make(map[string]*cacheEntry)}
}

// Normalize reduces a version spec to a bare version tag: the namespace
// prefix, a leading "v", and any pre-release suffix are stripped.
// "agentspec.dev/v1.2-rc.1" → "1.2".
func Normalize(versionSpec string) string {
	s := strings.TrimSpace(versionSpec)
	s = strings.TrimPrefix(s, VersionPrefix)
	s = strings.TrimPrefix(s, "v")
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Resolve maps a version spec to a compiled schema descriptor.
//
// Resolution order: normalize; expand documented aliases; use an exact
// release match if one exists; otherwise scan releases newest-first for one
// whose acceptedLegacy contains the tag (the newest such release wins);
// otherwise fail with ErrUnsupportedVersion.
func (r *Repository) Resolve(versionSpec string) (*Resolution, error) {
	tag := Normalize(versionSpec)
	if alias, ok := aliases[tag]; ok {
		tag = alias
	}

	if rel, ok := releaseFor(tag); ok {
		desc, err := r.load(rel)
		if err != nil {
			return nil, err
		}
		return &Resolution{Descriptor: desc, Requested: tag}, nil
	}

	for _, rel := range releasesNewestFirst() {
		if containsTag(rel.acceptedLegacy, tag) {
			desc, err := r.load(rel)
			if err != nil {
				return nil, err
			}
			return &Resolution{Descriptor: desc, Requested: tag, Legacy: true}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, versionSpec)
}

// Versions returns every published schema version, oldest first.
func (r *Repository) Versions() []string {
	out := make([]string, len(releases))
	for i, rel := range releases {
		out[i] = rel.version
	}
	return out
}

// Newest returns the newest published schema version.
func (r *Repository) Newest() string {
	newest := releasesNewestFirst()
	return newest[0].version
}

// Reset clears the compiled-schema cache. Intended for tests that need
// isolated repository state.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*cacheEntry)
}

// load returns the cached descriptor for a release, compiling it on first
// use. The per-key sync.Once guarantees at most one in-flight compilation
// per version; other requesters wait on it rather than re-loading.
func (r *Repository) load(rel release) (*Descriptor, error) {
	r.mu.RLock()
	e := r.cache[rel.version]
	r.mu.RUnlock()

	if e == nil {
		r.mu.Lock()
		e = r.cache[rel.version]
		if e == nil {
			e = &cacheEntry{}
			r.cache[rel.version] = e
		}
		r.mu.Unlock()
	}

	e.once.Do(func() {
		e.desc, e.err = compile(rel)
	})
	return e.desc, e.err
}

// compile reads the embedded asset and compiles it. Failures here are
// engine misconfiguration and abort the call.
func compile(rel release) (*Descriptor, error) {
	data, err := assetsFS.ReadFile(rel.asset)
	if err != nil {
		return nil, fmt.Errorf("reading schema asset %s: %w", rel.asset, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema %s: %w", rel.asset, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(rel.asset, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource %s: %w", rel.asset, err)
	}
	compiled, err := c.Compile(rel.asset)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", rel.asset, err)
	}

	legacy := make([]string, len(rel.acceptedLegacy))
	copy(legacy, rel.acceptedLegacy)

	return &Descriptor{
		Version:        rel.version,
		Schema:         compiled,
		AcceptedLegacy: legacy,
	}, nil
}

func releaseFor(tag string) (release, bool) {
	for _, rel := range releases {
		if rel.version == tag {
			return rel, true
		}
	}
	return release{}, false
}

// releasesNewestFirst returns the release list in descending semver order,
// so a legacy tag accepted by several schemas resolves to the newest one.
func releasesNewestFirst() []release {
	out := make([]release, len(releases))
	copy(out, releases)
	sort.Slice(out, func(i, j int) bool {
		vi, erri := semver.NewVersion(out[i].version)
		vj, errj := semver.NewVersion(out[j].version)
		if erri != nil || errj != nil {
			return out[i].version > out[j].version
		}
		return vi.GreaterThan(vj)
	})
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
