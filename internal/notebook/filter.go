package notebook

import "slices"

// RequiresDatabricks marks notebooks that need a Databricks workspace.
const RequiresDatabricks = "requires-databricks"

// DefaultExcludeTags are the tags that keep a notebook out of CI runs.
var DefaultExcludeTags = []string{RequiresDatabricks}

// Exclusion records why a notebook was left out.
type Exclusion struct {
	Path string `json:"path"`
	Tag  string `json:"tag"`
}

// Filter splits paths into the notebooks that carry none of excludeTags and
// the ones that were excluded. Input order is preserved in both results.
func Filter(paths []string, excludeTags []string) (runnable []string, excluded []Exclusion) {
	runnable = []string{}
	for _, path := range paths {
		if tag, ok := firstMatch(path, excludeTags); ok {
			excluded = append(excluded, Exclusion{Path: path, Tag: tag})
			continue
		}
		runnable = append(runnable, path)
	}
	return runnable, excluded
}

// Runnable discovers notebooks under root and drops the excluded ones.
func Runnable(root string, excludeTags []string) ([]string, []Exclusion, error) {
	all, err := Discover(root)
	if err != nil {
		return nil, nil, err
	}
	runnable, excluded := Filter(all, excludeTags)
	return runnable, excluded, nil
}

func firstMatch(path string, excludeTags []string) (string, bool) {
	if len(excludeTags) == 0 {
		return "", false
	}
	tags := ReadTags(path)
	for _, tag := range excludeTags {
		if slices.Contains(tags, tag) {
			return tag, true
		}
	}
	return "", false
}
