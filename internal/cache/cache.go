// Package cache makes repeated compilation runs cheap by fingerprinting
// source files and skipping the ones whose content has not changed.
//
// The design is fail-open on reads and fail-safe on writes: any read-side
// failure (missing file, corrupt cache, permission error) degrades to
// "treat as changed" or "treat as empty", so the worst case is a redundant
// recompilation, never a missed one. Write-side failures are logged and
// ignored, because losing the cache only costs performance on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	fingerprintsFile = "fingerprints.json"
	detectionsFile   = "detections.json"
)

// NoFingerprint is the sentinel returned when a file cannot be fingerprinted.
const NoFingerprint = ""

// DefaultDetectionMaxAge is how long a cached detection result stays valid.
const DefaultDetectionMaxAge = 30 * time.Minute

// FingerprintMap maps absolute file paths to sha256 hex digests of their
// full content. Absence of a path means "never seen" and is always treated
// as changed, never as an error.
type FingerprintMap map[string]string

// DetectionEntry is a cached environment-detection result for one project
// directory. It is valid only while now-Timestamp stays under the max age.
type DetectionEntry struct {
	DetectedItems []string  `json:"detectedItems"`
	Timestamp     time.Time `json:"timestamp"`
}

// Fresh reports whether the entry is still valid at now for the given max age.
func (e DetectionEntry) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.Timestamp) < maxAge
}

// DetectionMap maps absolute project-directory paths to detection results.
type DetectionMap map[string]DetectionEntry

// WarnFunc receives non-fatal cache events (unreadable files, failed writes).
type WarnFunc func(format string, args ...any)

// Manager persists fingerprint and detection caches in one directory
// (<project>/.rex/cache). Both caches load and save together but age
// independently: fingerprints by content, detections by time.
//
// Storage is shared across process invocations, not across threads; there is
// no inter-process locking, so concurrent runs race last-writer-wins.
type Manager struct {
	dir   string
	warnf WarnFunc
}

// NewManager creates a cache manager rooted at dir.
func NewManager(dir string, warnf WarnFunc) *Manager {
	if warnf == nil {
		warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		}
	}
	return &Manager{dir: dir, warnf: warnf}
}

// Dir returns the cache storage directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Load reads both cache mappings from storage. Missing storage yields an
// empty mapping for that cache; a read or parse failure for either yields
// empty mappings for both plus a warning. Never fails.
func (m *Manager) Load() (FingerprintMap, DetectionMap) {
	fingerprints := FingerprintMap{}
	detections := DetectionMap{}

	if ok := m.readJSON(filepath.Join(m.dir, fingerprintsFile), &fingerprints); !ok {
		return FingerprintMap{}, DetectionMap{}
	}
	if ok := m.readJSON(filepath.Join(m.dir, detectionsFile), &detections); !ok {
		return FingerprintMap{}, DetectionMap{}
	}

	if fingerprints == nil {
		fingerprints = FingerprintMap{}
	}
	if detections == nil {
		detections = DetectionMap{}
	}
	return fingerprints, detections
}

// Save writes both mappings to storage, replacing prior content. Failures
// are logged and swallowed: persistence is a performance concern only.
func (m *Manager) Save(fingerprints FingerprintMap, detections DetectionMap) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		m.warnf("failed to create cache directory %s: %v", m.dir, err)
		return
	}
	m.writeJSON(filepath.Join(m.dir, fingerprintsFile), fingerprints)
	m.writeJSON(filepath.Join(m.dir, detectionsFile), detections)
}

// Fingerprint reads the full file content and returns its sha256 hex digest.
// Returns NoFingerprint (with a warning) if the read fails for any reason.
func (m *Manager) Fingerprint(filePath string) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		m.warnf("failed to fingerprint %s: %v", filePath, err)
		return NoFingerprint
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HasChanged reports whether filePath needs recompilation against the given
// mapping. Unreadable files and unknown paths always count as changed.
func (m *Manager) HasChanged(filePath string, fingerprints FingerprintMap) bool {
	current := m.Fingerprint(filePath)
	if current == NoFingerprint {
		return true
	}
	stored, ok := fingerprints[filePath]
	return !ok || stored != current
}

// Classify partitions filePaths into changed and unchanged against the
// persisted fingerprint mapping, preserving input order within each list.
func (m *Manager) Classify(filePaths []string) (changed, unchanged []string) {
	fingerprints, _ := m.Load()
	for _, path := range filePaths {
		if m.HasChanged(path, fingerprints) {
			changed = append(changed, path)
		} else {
			unchanged = append(unchanged, path)
		}
	}
	return changed, unchanged
}

// UpdateFingerprint computes filePath's fingerprint and records it in the
// mapping. A failed computation leaves the mapping untouched, so the path
// classifies as changed again on the next run.
func (m *Manager) UpdateFingerprint(filePath string, fingerprints FingerprintMap) {
	fp := m.Fingerprint(filePath)
	if fp == NoFingerprint {
		return
	}
	fingerprints[filePath] = fp
}

// Clear deletes the entire cache storage directory. A missing directory is
// a no-op, not an error.
func (m *Manager) Clear() error {
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("clearing cache %s: %w", m.dir, err)
	}
	return nil
}

// Stats describes the cache for diagnostics.
type Stats struct {
	FingerprintEntries int    `json:"fingerprint_entries"`
	DetectionEntries   int    `json:"detection_entries"`
	Dir                string `json:"dir"`
	Exists             bool   `json:"exists"`
	Error              string `json:"error,omitempty"`
}

// StatsNow inspects the cache. This is a diagnostic path that must never
// crash the caller: any introspection failure yields zero counts, a false
// Exists, and the failure message.
func (m *Manager) StatsNow() Stats {
	stats := Stats{Dir: m.dir}

	info, err := os.Stat(m.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			stats.Error = err.Error()
		}
		return stats
	}
	if !info.IsDir() {
		stats.Error = fmt.Sprintf("%s is not a directory", m.dir)
		return stats
	}

	stats.Exists = true
	fingerprints, detections := m.Load()
	stats.FingerprintEntries = len(fingerprints)
	stats.DetectionEntries = len(detections)
	return stats
}

// readJSON decodes one cache file into out. Returns false only for
// read/parse failures that poison the whole load; a missing file is fine.
func (m *Manager) readJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true
		}
		m.warnf("failed to read cache file %s: %v", path, err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		m.warnf("failed to parse cache file %s: %v", path, err)
		return false
	}
	return true
}

// writeJSON persists one cache file, logging failures.
func (m *Manager) writeJSON(path string, data any) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		m.warnf("failed to serialize cache file %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o600); err != nil {
		m.warnf("failed to write cache file %s: %v", path, err)
	}
}
