package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"rrlfit/internal/fittable"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckCatalogs reports which configured sources lack a catalog file in dir.
func CheckCatalogs(sources []string, dir string) Result {
	if len(sources) == 0 {
		return Result{Name: NameCatalogs, Passed: true, Detail: "no sources configured"}
	}
	var missing []string
	for _, source := range sources {
		info, err := os.Stat(fittable.SourcePath(dir, source))
		switch {
		case err == nil && !info.IsDir():
		case err == nil, errors.Is(err, os.ErrNotExist):
			missing = append(missing, source)
		default:
			missing = append(missing, fmt.Sprintf("%s (%v)", source, err))
		}
	}
	if len(missing) == 0 {
		return Result{Name: NameCatalogs, Passed: true, Detail: fmt.Sprintf("%d of %d found", len(sources), len(sources))}
	}
	return Result{
		Name:   NameCatalogs,
		Detail: fmt.Sprintf("%d of %d found; missing: %s", len(sources)-len(missing), len(sources), strings.Join(missing, ", ")),
	}
}
