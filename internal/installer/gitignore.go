package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreComment = "# F' packages"

// gitignoreLine returns the ignore rule for the packages directory.
func gitignoreLine(packagesDir string) string {
	return "/" + strings.Trim(filepath.ToSlash(packagesDir), "/") + "/"
}

// ignorePackagesDir appends the packages directory to an existing .gitignore.
// Projects without a .gitignore are left alone. If the rule already exists,
// this is a no-op.
func ignorePackagesDir(root, packagesDir string) error {
	gitignorePath := filepath.Join(root, ".gitignore")
	line := gitignoreLine(packagesDir)

	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	bare := strings.Trim(line, "/")
	for _, l := range strings.Split(string(content), "\n") {
		if strings.Trim(strings.TrimSpace(l), "/") == bare {
			return nil
		}
	}

	suffix := gitignoreComment + "\n" + line + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to .gitignore: %w", err)
	}
	return nil
}
