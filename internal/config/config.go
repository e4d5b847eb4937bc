// Package config loads connection and discovery settings from the
// environment, an optional .env file, and an optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/DeusData/repo-graph-ingest/internal/discover"
	"github.com/DeusData/repo-graph-ingest/internal/lang"
)

const (
	defaultURI      = "neo4j+s://your-aura-id.databases.neo4j.io"
	defaultUsername = "neo4j"
	defaultPassword = "your-password"
)

// Config carries every setting the pipeline and ingester need. It is built
// once and passed explicitly; nothing reads ambient state after Load.
type Config struct {
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	IgnoreDirs    map[string]bool
	Extensions    map[string]bool
}

// Load reads a .env file if present, then the environment, applying
// defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	exts := make(map[string]bool)
	for _, ext := range lang.Extensions() {
		exts[ext] = true
	}

	ignore := make(map[string]bool, len(discover.DefaultIgnoreDirs))
	for dir := range discover.DefaultIgnoreDirs {
		ignore[dir] = true
	}

	return &Config{
		Neo4jURI:      envOr("NEO4J_URI", defaultURI),
		Neo4jUsername: envOr("NEO4J_USERNAME", defaultUsername),
		Neo4jPassword: envOr("NEO4J_PASSWORD", defaultPassword),
		IgnoreDirs:    ignore,
		Extensions:    exts,
	}
}

// fileConfig is the YAML override schema.
type fileConfig struct {
	Neo4j struct {
		URI      string `yaml:"uri"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"neo4j"`
	IgnoreDirectories []string `yaml:"ignore_directories"`
	SourceExtensions  []string `yaml:"source_extensions"`
}

// ApplyFile overlays settings from a YAML file. Lists replace the current
// sets wholesale; empty fields leave the current value alone.
func (c *Config) ApplyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Neo4j.URI != "" {
		c.Neo4jURI = fc.Neo4j.URI
	}
	if fc.Neo4j.Username != "" {
		c.Neo4jUsername = fc.Neo4j.Username
	}
	if fc.Neo4j.Password != "" {
		c.Neo4jPassword = fc.Neo4j.Password
	}
	if len(fc.IgnoreDirectories) > 0 {
		c.IgnoreDirs = toSet(fc.IgnoreDirectories)
	}
	if len(fc.SourceExtensions) > 0 {
		c.Extensions = toSet(fc.SourceExtensions)
	}
	return nil
}

// Validate reports placeholder connection settings that were never
// configured.
func (c *Config) Validate() error {
	var issues []string
	if strings.HasSuffix(c.Neo4jURI, "your-aura-id.databases.neo4j.io") {
		issues = append(issues, "NEO4J_URI appears to be using the default value")
	}
	if c.Neo4jPassword == defaultPassword {
		issues = append(issues, "NEO4J_PASSWORD appears to be using the default value")
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}
	return nil
}

// DiscoverOptions returns the discovery settings in the shape the walker
// expects.
func (c *Config) DiscoverOptions() *discover.Options {
	return &discover.Options{IgnoreDirs: c.IgnoreDirs, Extensions: c.Extensions}
}

// LogConfig logs the current settings with the password masked.
func (c *Config) LogConfig() {
	password := "not set"
	if c.Neo4jPassword != "" {
		password = strings.Repeat("*", len(c.Neo4jPassword))
	}
	slog.Info("config",
		"neo4j_uri", c.Neo4jURI,
		"neo4j_username", c.Neo4jUsername,
		"neo4j_password", password,
		"ignore_dirs", len(c.IgnoreDirs),
		"extensions", keys(c.Extensions),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
