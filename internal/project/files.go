package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Characters rejected in names. File names may contain separators so
// that "utils/helper.py" creates the intermediate folder.
const (
	invalidFileChars   = `<>:"|?*`
	invalidFolderChars = `<>:"/\|?*`
)

// FileTypes maps the new-file choices to their extensions.
var FileTypes = map[string]string{
	"python":     ".py",
	"cpp":        ".cpp",
	"c":          ".c",
	"header":     ".h",
	"hpp":        ".hpp",
	"java":       ".java",
	"javascript": ".js",
	"html":       ".html",
	"css":        ".css",
	"text":       ".txt",
}

// ValidateFileName checks a name for NewFile.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &NameError{Name: name, Reason: "file name cannot be empty"}
	}
	if strings.ContainsAny(name, invalidFileChars) {
		return &NameError{Name: name, Reason: "file name cannot contain any of " + invalidFileChars}
	}
	return nil
}

// ValidateFolderName checks a name for NewFolder and Create.
func ValidateFolderName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &NameError{Name: name, Reason: "folder name cannot be empty"}
	}
	if !strings.ContainsFunc(name, isAlnum) {
		return &NameError{Name: name, Reason: "folder name must contain at least one alphanumeric character"}
	}
	if strings.ContainsAny(name, invalidFolderChars) {
		return &NameError{Name: name, Reason: "folder name cannot contain any of " + invalidFolderChars}
	}
	return nil
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FileName appends ext to name unless name already ends with it. ext may
// be given with or without its dot.
func FileName(name, ext string) string {
	name = strings.TrimSpace(name)
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "" || strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// NewFile creates an empty file dir/name+ext, making intermediate
// folders. It returns the new path.
func NewFile(dir, name, ext string) (string, error) {
	full := FileName(name, ext)
	if err := ValidateFileName(full); err != nil {
		return "", err
	}
	path, err := within(dir, full)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", NewPathError("mkdir", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", NewPathError("create", path, ErrExists)
	}
	if err != nil {
		return "", NewPathError("create", path, err)
	}
	if err := f.Close(); err != nil {
		return "", NewPathError("create", path, err)
	}
	return path, nil
}

// NewFolder creates dir/name and returns its path.
func NewFolder(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := ValidateFolderName(name); err != nil {
		return "", err
	}
	path, err := within(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", NewPathError("mkdir", path, ErrExists)
		}
		return "", NewPathError("mkdir", path, err)
	}
	return path, nil
}

// within joins dir and rel and rejects results outside dir.
func within(dir, rel string) (string, error) {
	path := filepath.Join(dir, filepath.FromSlash(rel))
	r, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", NewPathError("create", path, ErrOutsideDir)
	}
	return path, nil
}
