package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded from the VERSION file.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the configuration directory.
	Name = "gentmpl"
	// Description summarizes the command for help output.
	Description = "Render source code from a definitions model through directive templates"
)

// AuthorInfo is a name and contact address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the maintainers shown in version output.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
