package highlight

import (
	"bufio"
	"embed"
	"fmt"
	"strings"
)

// PythonBuiltinsVersion identifies the embedded Python builtins list.
const PythonBuiltinsVersion = "3.12"

//go:embed builtins/*.txt
var builtinLists embed.FS

// BuiltinWords returns the embedded word list named name (e.g. "python-3.12").
// Blank lines and lines starting with '#' are skipped.
func BuiltinWords(name string) ([]string, error) {
	data, err := builtinLists.ReadFile("builtins/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("builtin word list %q: %w", name, err)
	}

	var words []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	return words, sc.Err()
}

func mustBuiltinWords(name string) []string {
	words, err := BuiltinWords(name)
	if err != nil {
		panic(err)
	}
	return words
}
