// Package detect probes a project directory for AI editor integrations.
// Results are cached with a time-based staleness window because detection
// walks the filesystem and its inputs change rarely.
package detect

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gorewood/rex/internal/cache"
)

// probe maps an integration name to the markers that identify it.
// Any one marker present means the integration is detected.
type probe struct {
	item    string
	markers []string
}

var probes = []probe{
	{item: "claude", markers: []string{".claude", "CLAUDE.md"}},
	{item: "copilot", markers: []string{".github"}},
	{item: "cursor", markers: []string{".cursor", ".cursorrules"}},
	{item: "vscode", markers: []string{".vscode"}},
}

// Detect probes projectDir and returns the sorted list of detected
// integrations. Unreadable markers count as absent.
func Detect(projectDir string) []string {
	var items []string
	for _, p := range probes {
		for _, marker := range p.markers {
			if _, err := os.Stat(filepath.Join(projectDir, marker)); err == nil {
				items = append(items, p.item)
				break
			}
		}
	}
	sort.Strings(items)
	return items
}

// Cached returns the detection result for projectDir, serving a cached
// entry while it is younger than maxAge and recomputing (and recording)
// otherwise. The second result reports whether the cache served the answer.
func Cached(mgr *cache.Manager, projectDir string, maxAge time.Duration) (items []string, fromCache bool) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}

	fingerprints, detections := mgr.Load()
	if entry, ok := detections[abs]; ok && entry.Fresh(time.Now(), maxAge) {
		return entry.DetectedItems, true
	}

	items = Detect(projectDir)
	detections[abs] = cache.DetectionEntry{
		DetectedItems: items,
		Timestamp:     time.Now(),
	}
	mgr.Save(fingerprints, detections)
	return items, false
}
