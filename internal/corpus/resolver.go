package corpus

import (
	"os"
	"path/filepath"
)

// Candidate maps an artifact filename to a location to try. ok=false skips it.
type Candidate func(filename string) (path string, ok bool)

// InDir returns a candidate for dir/filename. An empty dir is skipped.
func InDir(dir string) Candidate {
	return func(filename string) (string, bool) {
		if dir == "" {
			return "", false
		}
		return filepath.Join(dir, filename), true
	}
}

// Locations are the directories searched for artifacts.
type Locations struct {
	ConfiguredDir string // explicit override, highest priority
	CodeDir       string // directory of the service binary
	ProjectRoot   string // parent of CodeDir unless configured
	WorkDir       string
}

// DefaultCandidates returns the search order: configured dir, code/artifacts,
// root/artifacts, code dir, root, cwd/artifacts, cwd.
func DefaultCandidates(loc Locations) []Candidate {
	return []Candidate{
		InDir(loc.ConfiguredDir),
		InDir(joinIfSet(loc.CodeDir, "artifacts")),
		InDir(joinIfSet(loc.ProjectRoot, "artifacts")),
		InDir(loc.CodeDir),
		InDir(loc.ProjectRoot),
		InDir(joinIfSet(loc.WorkDir, "artifacts")),
		InDir(loc.WorkDir),
	}
}

func joinIfSet(dir, sub string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, sub)
}

// Resolver evaluates candidates in priority order.
type Resolver struct {
	candidates []Candidate
	exists     func(path string) bool
}

// NewResolver creates a resolver. exists defaults to a regular-file stat.
func NewResolver(candidates []Candidate, exists func(string) bool) *Resolver {
	if exists == nil {
		exists = fileExists
	}
	return &Resolver{candidates: candidates, exists: exists}
}

// Resolve returns the first existing path for filename.
func (r *Resolver) Resolve(filename string) (string, bool) {
	for _, c := range r.candidates {
		p, ok := c(filename)
		if ok && r.exists(p) {
			return p, true
		}
	}
	return "", false
}

// include adds dir to the search order right after the first candidate
// unless it is already searched.
func (r *Resolver) include(dir string) {
	if dir == "" {
		return
	}
	clean := filepath.Clean(dir)
	for _, d := range r.Checked("file") {
		if filepath.Clean(d) == clean {
			return
		}
	}
	at := 0
	if len(r.candidates) > 0 {
		at = 1
	}
	cands := make([]Candidate, 0, len(r.candidates)+1)
	cands = append(cands, r.candidates[:at]...)
	cands = append(cands, InDir(dir))
	cands = append(cands, r.candidates[at:]...)
	r.candidates = cands
}

// Checked lists the directories tried for filename, deduplicated, in order.
func (r *Resolver) Checked(filename string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, c := range r.candidates {
		p, ok := c(filename)
		if !ok {
			continue
		}
		d := filepath.Dir(p)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	return dirs
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
