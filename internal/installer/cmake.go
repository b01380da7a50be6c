package installer

import (
	"fmt"
	"os"
	"strings"
)

// CMakeListsFile is the build file listing package sources.
const CMakeListsFile = "CMakeLists.txt"

// pruneCMakeLists drops every line mentioning folder from the CMakeLists.txt
// at path. A missing file is not an error. It returns the number of lines removed.
func pruneCMakeLists(path, folder string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	lines := strings.SplitAfter(string(content), "\n")
	var kept []string
	removed := 0
	for _, l := range lines {
		if strings.Contains(l, folder) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(kept, "")), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return removed, nil
}
