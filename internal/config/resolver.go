package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorewood/rex/internal/output"
)

// FragmentFile is the structured-data file each scope root contains.
const FragmentFile = "config.json"

// Fragment is one layer's configuration data before merging: an arbitrarily
// nested mapping of string keys to values (string, number, bool, list, or
// nested mapping).
type Fragment = map[string]any

// WarnFunc receives non-fatal resolution events (unreadable fragment files,
// malformed JSON). The resolver degrades to an empty fragment in every such
// case; the warning is the only trace.
type WarnFunc func(format string, args ...any)

// Unset is the marker value for SetUtilityValue that deletes a key instead
// of writing one.
var Unset = &unsetMarker{}

type unsetMarker struct{}

// Options configures a Resolver.
type Options struct {
	// GlobalDir is the global scope root. Defaults to Dir().
	GlobalDir string

	// ProjectDir is the project root. The project fragment lives at
	// <ProjectDir>/.rex/config.json. Defaults to the current directory.
	ProjectDir string

	// Warnf receives non-fatal events. Defaults to stderr.
	Warnf WarnFunc
}

// Resolver merges global, project, and override fragments into one queryable
// configuration with override > project > global precedence.
//
// State is instance-scoped with an explicit lifecycle: Load populates it,
// Reset returns the resolver to its pre-Load state. The merged view lives in
// memory only; Save* operations persist whole fragments, never the merge.
//
// Concurrent process invocations against the same scope roots race
// last-writer-wins on the fragment files; no inter-process locking is done.
type Resolver struct {
	globalPath  string
	projectPath string
	warnf       WarnFunc

	global   Fragment
	project  Fragment
	override Fragment
	merged   Fragment
	loaded   bool
}

// NewResolver creates a resolver for the given scope roots.
func NewResolver(opts Options) *Resolver {
	globalDir := opts.GlobalDir
	if globalDir == "" {
		globalDir = Dir()
	}
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	warnf := opts.Warnf
	if warnf == nil {
		warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		}
	}
	return &Resolver{
		globalPath:  filepath.Join(globalDir, FragmentFile),
		projectPath: filepath.Join(ProjectDir(projectDir), FragmentFile),
		warnf:       warnf,
	}
}

// Load reads both persisted fragments, strips nil-valued keys from the
// override fragment, merges global → project → override, and stores the
// result as current state. Missing or malformed fragment files degrade to
// empty fragments with a warning; only a defect in the merge step itself
// surfaces as an error.
func (r *Resolver) Load(override Fragment) (Fragment, error) {
	r.global = r.readFragment(r.globalPath, "global")
	r.project = r.readFragment(r.projectPath, "project")
	r.override = stripNil(override)

	merged, err := mergeAll(r.global, r.project, r.override)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(
			"failed to load configuration: "+err.Error(), err)
	}

	r.merged = merged
	r.loaded = true
	return r.merged, nil
}

// Get returns the value at keyPath in the merged configuration, or
// defaultValue if the path is absent at any level.
func (r *Resolver) Get(keyPath string, defaultValue any) (any, error) {
	if !r.loaded {
		return nil, output.NewNotLoadedError("get")
	}
	if val, ok := getPath(r.merged, keyPath); ok {
		return val, nil
	}
	return defaultValue, nil
}

// Set writes value into the in-memory merged configuration only,
// materializing intermediate mappings as needed. Persisted storage is not
// touched. Calling Set before Load initializes an empty merged
// configuration so ad-hoc use still works.
func (r *Resolver) Set(keyPath string, value any) {
	if !r.loaded {
		r.merged = Fragment{}
		r.loaded = true
	}
	setPath(r.merged, keyPath, value)
}

// GetAll returns a shallow copy of the merged configuration.
func (r *Resolver) GetAll() (Fragment, error) {
	if !r.loaded {
		return nil, output.NewNotLoadedError("getAll")
	}
	copied := make(Fragment, len(r.merged))
	for k, v := range r.merged {
		copied[k] = v
	}
	return copied, nil
}

// ValidateRequired checks that every key path resolves to a value and fails
// with a validation error enumerating all missing paths, not just the first.
func (r *Resolver) ValidateRequired(keyPaths []string) error {
	if !r.loaded {
		return output.NewNotLoadedError("validateRequired")
	}
	var missing []string
	for _, path := range keyPaths {
		if _, ok := getPath(r.merged, path); !ok {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return output.NewValidationError(missing)
	}
	return nil
}

// SaveGlobalFragment persists fragment as the complete replacement content
// of the global scope and re-merges in memory if a configuration was loaded.
// The re-merge treats the override fragment as empty.
func (r *Resolver) SaveGlobalFragment(fragment Fragment) error {
	if err := r.writeFragment(r.globalPath, fragment); err != nil {
		return err
	}
	r.global = fragment
	return r.remerge()
}

// SaveProjectFragment persists fragment as the complete replacement content
// of the project scope and re-merges in memory if a configuration was loaded.
// The re-merge treats the override fragment as empty.
func (r *Resolver) SaveProjectFragment(fragment Fragment) error {
	if err := r.writeFragment(r.projectPath, fragment); err != nil {
		return err
	}
	r.project = fragment
	return r.remerge()
}

// SetUtilityValue writes (or, with the Unset marker, deletes) a nested
// setting under utilities.<scope>.<key> in the project fragment and
// persists it. Deleting the last key prunes the emptied utilities.<scope>
// mapping, and the top-level utilities mapping if it empties too.
// Auto-loads with empty overrides if nothing has been loaded yet.
func (r *Resolver) SetUtilityValue(scope, key string, value any) error {
	if !r.loaded {
		if _, err := r.Load(nil); err != nil {
			return err
		}
	}

	project := r.project
	if project == nil {
		project = Fragment{}
	}

	if value == Unset {
		deletePath(project, "utilities."+scope+"."+key)
	} else {
		setPath(project, "utilities."+scope+"."+key, value)
	}

	return r.SaveProjectFragment(project)
}

// Reset clears all in-memory fragments and the merged result, returning the
// resolver to its pre-Load state.
func (r *Resolver) Reset() {
	r.global = nil
	r.project = nil
	r.override = nil
	r.merged = nil
	r.loaded = false
}

// IsLoaded reports whether a merged configuration currently exists in memory.
func (r *Resolver) IsLoaded() bool {
	return r.loaded
}

// Sources returns the global, project, and merged fragments for
// introspection. Decision logic should use Get instead.
func (r *Resolver) Sources() (global, project, merged Fragment) {
	return r.global, r.project, r.merged
}

// GlobalPath returns the global fragment file path.
func (r *Resolver) GlobalPath() string { return r.globalPath }

// ProjectPath returns the project fragment file path.
func (r *Resolver) ProjectPath() string { return r.projectPath }

// remerge recomputes the merged configuration from the stored global and
// project fragments with an empty override. No-op before the first Load.
func (r *Resolver) remerge() error {
	if !r.loaded {
		return nil
	}
	merged, err := mergeAll(r.global, r.project, nil)
	if err != nil {
		return output.NewSystemErrorWithCause(
			"failed to load configuration: "+err.Error(), err)
	}
	r.merged = merged
	return nil
}

// readFragment loads one fragment file. A missing file yields an empty
// fragment silently; any other read or parse failure yields an empty
// fragment plus a warning. Never fails.
func (r *Resolver) readFragment(path, scope string) Fragment {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warnf("failed to read %s config %s: %v", scope, path, err)
		}
		return Fragment{}
	}

	var fragment Fragment
	if err := json.Unmarshal(data, &fragment); err != nil {
		r.warnf("failed to parse %s config %s: %v", scope, path, err)
		return Fragment{}
	}
	if fragment == nil {
		fragment = Fragment{}
	}
	return fragment
}

// writeFragment persists a fragment as indented JSON, creating the
// containing directory first. Writes are whole-file replacements.
func (r *Resolver) writeFragment(path string, fragment Fragment) error {
	if fragment == nil {
		fragment = Fragment{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return output.NewFilesystemError("creating config directory for", path, err)
	}
	data, err := json.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return output.NewFilesystemError("serializing config to", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return output.NewFilesystemError("writing config to", path, err)
	}
	return nil
}

// mergeAll merges fragments left-to-right by ascending priority.
// An error here indicates an internal defect, not an I/O condition.
func mergeAll(fragments ...Fragment) (Fragment, error) {
	result := Fragment{}
	for _, f := range fragments {
		result = mergeTwo(result, f)
	}
	return result, nil
}

// mergeTwo merges higher-priority b over lower-priority a.
// Nested mappings merge field-by-field; everything else (scalars, lists,
// mapping-vs-non-mapping conflicts) is replaced outright by b's value.
// Full replacement for lists is deliberate: an override list always wins,
// never concatenates.
func mergeTwo(a, b Fragment) Fragment {
	result := make(Fragment, len(a))
	for k, v := range a {
		result[k] = v
	}
	for k, bv := range b {
		am, aOK := result[k].(map[string]any)
		bm, bOK := bv.(map[string]any)
		if aOK && bOK {
			result[k] = mergeTwo(am, bm)
			continue
		}
		result[k] = bv
	}
	return result
}

// stripNil returns a copy of f without nil-valued top-level keys. Callers
// building override fragments from optional flags use nil for "not set";
// those keys must not shadow lower-priority values.
func stripNil(f Fragment) Fragment {
	result := Fragment{}
	for k, v := range f {
		if v == nil {
			continue
		}
		result[k] = v
	}
	return result
}
