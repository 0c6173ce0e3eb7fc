package script

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// InitScript is a user-provided shell script run when the inspector starts
type InitScript struct {
	Name    string
	Content string
}

// LoadInitScripts reads every *.sh file in dir, sorted by name. A missing
// directory yields no scripts. Unreadable and empty files are skipped.
func LoadInitScripts(dir string) ([]InitScript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sh" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	scripts := make([]InitScript, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logrus.Errorf("Failed to load init script %s: %v", name, err)
			continue
		}
		if len(content) == 0 {
			continue
		}
		scripts = append(scripts, InitScript{Name: name, Content: string(content)})
	}
	return scripts, nil
}
