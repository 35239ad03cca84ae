// Package config manages user-level settings stored at
// ~/.agentspec/config.yaml. It provides functions to load, read, and write
// configuration keys such as the capability-match warning penalty and the
// default schema version.
package config
