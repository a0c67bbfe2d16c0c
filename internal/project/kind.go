package project

import (
	"fmt"
	"strings"
)

// Kind selects the starter files of a new project.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindPython
	KindC
	KindCpp
	KindJava
	KindJavaScript
)

var kindNames = [...]string{
	KindEmpty:      "empty",
	KindPython:     "python",
	KindC:          "c",
	KindCpp:        "cpp",
	KindJava:       "java",
	KindJavaScript: "javascript",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindEmpty, KindPython, KindC, KindCpp, KindJava, KindJavaScript}
}

// String returns the kind's manifest name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind accepts the manifest names plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "empty":
		return KindEmpty, nil
	case "python", "py":
		return KindPython, nil
	case "c":
		return KindC, nil
	case "cpp", "c++", "cxx":
		return KindCpp, nil
	case "java":
		return KindJava, nil
	case "javascript", "js", "web":
		return KindJavaScript, nil
	}
	return KindEmpty, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// template is one starter file. Content may reference {{name}}.
type template struct {
	path    string
	content string
}

// scaffold describes what a kind adds to the standard src, tests and docs
// directories.
type scaffold struct {
	main  string
	files []template
}

func (k Kind) scaffold() scaffold {
	switch k {
	case KindPython:
		return scaffold{main: "src/main.py", files: []template{
			{"src/main.py", pythonMain},
			{"requirements.txt", "# Project dependencies\n"},
			{"README.md", pythonReadme},
			{".gitignore", pythonGitignore},
		}}
	case KindC:
		return scaffold{main: "src/main.c", files: []template{
			{"src/main.c", cMain},
			{"Makefile", cMakefile},
		}}
	case KindCpp:
		return scaffold{main: "src/main.cpp", files: []template{
			{"src/main.cpp", cppMain},
			{"CMakeLists.txt", cppCMake},
		}}
	case KindJava:
		return scaffold{main: "src/Main.java", files: []template{
			{"src/Main.java", javaMain},
		}}
	case KindJavaScript:
		return scaffold{main: "src/js/main.js", files: []template{
			{"src/index.html", webIndex},
			{"src/css/style.css", webStyle},
			{"src/js/main.js", "console.log(\"Hello from JavaScript!\");\n"},
		}}
	}
	return scaffold{}
}

const pythonMain = `def main():
    print("Hello, World!")

if __name__ == "__main__":
    main()
`

const pythonReadme = "# {{name}}\n\n" +
	"A Python project created with Pylight IDE.\n\n" +
	"## Getting Started\n\n" +
	"1. Install dependencies:\n   ```\n   pip install -r requirements.txt\n   ```\n\n" +
	"2. Run the project:\n   ```\n   python src/main.py\n   ```\n"

const pythonGitignore = `# Python
__pycache__/
*.py[cod]
venv/
.env
.idea/
.vscode/
`

const cMain = `#include <stdio.h>

int main(void) {
    printf("Hello, World!\n");
    return 0;
}
`

const cMakefile = "CC = gcc\nCFLAGS = -Wall\n\n" +
	"{{name}}: src/main.c\n\t$(CC) $(CFLAGS) -o $@ $<\n\n" +
	"clean:\n\trm -f {{name}}\n"

const cppMain = `#include <iostream>

int main() {
    std::cout << "Hello, World!" << std::endl;
    return 0;
}
`

const cppCMake = `cmake_minimum_required(VERSION 3.10)
project({{name}})

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

add_executable(${PROJECT_NAME} src/main.cpp)
`

const javaMain = `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`

const webIndex = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{name}}</title>
    <link rel="stylesheet" href="css/style.css">
</head>
<body>
    <h1>Hello, World!</h1>
    <script src="js/main.js"></script>
</body>
</html>
`

const webStyle = `body {
    font-family: Arial, sans-serif;
    margin: 0;
    padding: 20px;
}
`
