package manifest

// KindAgent is the only document kind this engine accepts.
const KindAgent = "Agent"

// Manifest is the envelope for an agent description. It is owned entirely
// by the caller; the engine never mutates it.
type Manifest struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Spec       Spec        `yaml:"spec" json:"spec"`
	Extensions *Extensions `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// raw holds the generic document tree captured at parse time so the
	// structural validator sees the document as authored, including fields
	// the typed model does not know about.
	raw interface{}
}

// Metadata identifies the agent described by a manifest.
type Metadata struct {
	Name        string            `yaml:"name" json:"name"`
	Namespace   string            `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Version     string            `yaml:"version" json:"version"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Spec declares what the agent provides and how it behaves.
type Spec struct {
	Capabilities  []CapabilityDeclaration `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Protocols     []ProtocolBinding       `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Performance   *PerformanceTargets     `yaml:"performance,omitempty" json:"performance,omitempty"`
	Budget        *Budget                 `yaml:"budget,omitempty" json:"budget,omitempty"`
	Features      []string                `yaml:"features,omitempty" json:"features,omitempty"`
	AccessControl *AccessControl          `yaml:"accessControl,omitempty" json:"accessControl,omitempty"`
}

// CapabilityDeclaration is a closed descriptor for one capability the agent
// provides, matched by name plus semantic version.
type CapabilityDeclaration struct {
	Name            string `yaml:"name" json:"name"`
	Version         string `yaml:"version" json:"version"`
	InputSchemaRef  string `yaml:"inputSchemaRef,omitempty" json:"inputSchemaRef,omitempty"`
	OutputSchemaRef string `yaml:"outputSchemaRef,omitempty" json:"outputSchemaRef,omitempty"`
	Deprecated      bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

// ProtocolBinding declares one transport the agent speaks.
type ProtocolBinding struct {
	Kind     string `yaml:"kind" json:"kind"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	TLS      bool   `yaml:"tls,omitempty" json:"tls,omitempty"`
}

// PerformanceTargets carries the latency/throughput figures the agent claims.
// Percentile latencies are in milliseconds. Pointer fields distinguish
// "not declared" from an explicit zero.
type PerformanceTargets struct {
	P50Millis     *float64 `yaml:"p50Millis,omitempty" json:"p50Millis,omitempty"`
	P95Millis     *float64 `yaml:"p95Millis,omitempty" json:"p95Millis,omitempty"`
	P99Millis     *float64 `yaml:"p99Millis,omitempty" json:"p99Millis,omitempty"`
	ThroughputRPS *float64 `yaml:"throughputRps,omitempty" json:"throughputRps,omitempty"`
}

// Budget declares per-task cost limits in USD. Pointer fields distinguish
// "not declared" from an explicit zero.
type Budget struct {
	CeilingUSD *float64 `yaml:"ceilingUsd,omitempty" json:"ceilingUsd,omitempty"`
	FloorUSD   *float64 `yaml:"floorUsd,omitempty" json:"floorUsd,omitempty"`
	DefaultUSD *float64 `yaml:"defaultUsd,omitempty" json:"defaultUsd,omitempty"`
}

// AccessControl declares who may invoke the agent.
type AccessControl struct {
	AuthKind string   `yaml:"authKind" json:"authKind"`
	Roles    []string `yaml:"roles,omitempty" json:"roles,omitempty"`
}

// Extensions holds optional vendor extensions outside the core spec.
// Capabilities declared here are secondary: the matcher treats them as
// fallback declarations.
type Extensions struct {
	Capabilities []CapabilityDeclaration `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Experimental map[string]interface{}  `yaml:"experimental,omitempty" json:"experimental,omitempty"`
}

// Protocol kind constants for the kind discriminator field.
const (
	ProtocolHTTP      = "http"
	ProtocolGRPC      = "grpc"
	ProtocolWebSocket = "websocket"
	ProtocolStdio     = "stdio"
)

// Feature name constants for the optional feature list.
const (
	FeatureAuditLogging   = "audit-logging"
	FeatureBudgetTracking = "budget-tracking"
	FeatureFeedbackLoop   = "feedback-loop"
	FeatureDelegation     = "delegation"
)
