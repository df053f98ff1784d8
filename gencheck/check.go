package gencheck

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/teranos/faked/errors"
)

// Status describes how a file differs.
type Status string

const (
	StatusChanged Status = "changed"
	StatusMissing Status = "missing" // generated but not committed
	StatusStale   Status = "stale"   // committed but no longer generated
)

// Difference is one out-of-date file.
type Difference struct {
	Path   string
	Status Status
	// Diff is a line diff from committed to generated content, for changed files.
	Diff string
}

// CheckResult holds the result of comparing two output directories.
type CheckResult struct {
	UpToDate    bool
	Differences []Difference
}

// Err returns ErrOutOfDate naming the differing files, or nil.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	paths := make([]string, len(r.Differences))
	for i, d := range r.Differences {
		paths[i] = d.Path
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%s", strings.Join(paths, ", ")),
		"run 'faked generate' to update")
}

// CompareDirectories compares freshly generated files in generatedDir with
// committed files in committedDir. Only files ending in suffix take part;
// header version lines are ignored.
func CompareDirectories(generatedDir, committedDir, suffix string) (*CheckResult, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	generated, err := listOutputs(generatedDir, suffix)
	if err != nil {
		return nil, err
	}
	committed := map[string]bool{}
	if _, statErr := os.Stat(committedDir); statErr == nil {
		if committed, err = listOutputs(committedDir, suffix); err != nil {
			return nil, err
		}
	}

	var diffs []Difference
	for _, rel := range sortedKeys(generated) {
		if !committed[rel] {
			diffs = append(diffs, Difference{Path: rel, Status: StatusMissing})
			continue
		}
		fresh, err := readFiltered(filepath.Join(generatedDir, rel))
		if err != nil {
			return nil, err
		}
		old, err := readFiltered(filepath.Join(committedDir, rel))
		if err != nil {
			return nil, err
		}
		if fresh != old {
			diffs = append(diffs, Difference{Path: rel, Status: StatusChanged, Diff: LineDiff(old, fresh)})
		}
	}
	for _, rel := range sortedKeys(committed) {
		if !generated[rel] {
			diffs = append(diffs, Difference{Path: rel, Status: StatusStale})
		}
	}

	return &CheckResult{UpToDate: len(diffs) == 0, Differences: diffs}, nil
}

// listOutputs returns the relative paths of generated files under dir.
func listOutputs(dir, suffix string) (map[string]bool, error) {
	out := make(map[string]bool)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	return out, nil
}

func readFiltered(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return filterMetadataLines(content)
}

// filterMetadataLines drops the header version line, which changes on
// every release without changing the generated declarations.
func filterMetadataLines(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), VersionPrefix) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "failed to scan generated file")
	}
	return result.String(), nil
}

// LineDiff renders a line-oriented diff from a to b. Removed lines start
// with "-", added lines with "+" and unchanged lines with a space.
func LineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
