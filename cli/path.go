package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/gentmpl/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the name of the configuration and cache directories.
//
// It is the base name of the executable file without extension, except:
//   - "__debug_bin<N>" (default output of the dlv debugger) is [pkg.Name]
//   - leading dots are removed
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return commandName(id)
	},
)

var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

func commandName(path string) string {
	id := filepath.Base(path)
	id = strings.TrimLeft(id, ".")
	id = strings.TrimSuffix(id, filepath.Ext(id))

	if id == "" || debugBin.MatchString(id) {
		return pkg.Name
	}

	return id
}

// userDir returns the user directory given by base, falling back to sub under
// the home directory and then to the working directory.
func userDir(base func() (string, error), sub string) string {
	dir, err := base()
	if err == nil {
		return filepath.Join(dir, basePrefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, sub, basePrefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, basePrefix())
	}

	return basePrefix()
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for transient files.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
