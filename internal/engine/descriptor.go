package engine

import (
	"runtime/debug"
	"strings"

	"github.com/danieljhkim/thirdparty/internal/identity"
)

// Descriptor reports the tool's own coordinates when the build manifest does
// not declare them. name is the configured "groupId:artifactId".
type Descriptor func(name string) (identity.ID, bool)

// BuildInfoDescriptor derives the version from the binary's embedded module
// information. Development builds report no usable version.
func BuildInfoDescriptor(name string) (identity.ID, bool) {
	group, artifact, ok := strings.Cut(name, identity.Separator)
	if !ok {
		return identity.ID{}, false
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return identity.ID{}, false
	}
	version := strings.TrimPrefix(info.Main.Version, "v")
	if version == "" || version == "(devel)" {
		return identity.ID{}, false
	}

	id, err := identity.New(group, artifact, version)
	if err != nil {
		return identity.ID{}, false
	}
	return id, true
}

// StaticDescriptor always reports id.
func StaticDescriptor(id identity.ID) Descriptor {
	return func(string) (identity.ID, bool) {
		return id, true
	}
}
