package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.txt
var embedded embed.FS

const (
	SimplifySystem = "simplify.system"
	SimplifyUser   = "simplify.user"
	ExtractUser    = "extract.user"
)

// Set holds the fixed instructions sent to the provider.
type Set struct {
	SimplifySystem string
	SimplifyUser   string
	ExtractUser    string
}

// Load reads every prompt from dir/<name>.txt, falling back to the embedded copy
// when dir is empty or the file is missing.
func Load(dir string) (Set, error) {
	var s Set
	var err error
	if s.SimplifySystem, err = load(dir, SimplifySystem); err != nil {
		return Set{}, err
	}
	if s.SimplifyUser, err = load(dir, SimplifyUser); err != nil {
		return Set{}, err
	}
	if s.ExtractUser, err = load(dir, ExtractUser); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Default is the embedded prompt set.
func Default() Set {
	s, err := Load("")
	if err != nil {
		panic(err)
	}
	return s
}

// SimplifyRequest builds the user turn for a document.
func (s Set) SimplifyRequest(text string) string {
	return s.SimplifyUser + "\n\n" + text
}

func load(dir, name string) (string, error) {
	file := name + ".txt"
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, file))
		switch {
		case err == nil && len(strings.TrimSpace(string(b))) > 0:
			return strings.TrimSpace(string(b)), nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("prompt: read %s: %w", file, err)
		}
	}
	b, err := embedded.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("prompt %q not found: %w", name, err)
	}
	return strings.TrimSpace(string(b)), nil
}
