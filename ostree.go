package ostree

import (
	"fmt"
	"strings"
)

// ObjectType identifies the kind of an object stored in a repository.
// Values match the OstreeObjectType enumeration.
type ObjectType uint32

const (
	ObjectTypeFile ObjectType = iota + 1
	ObjectTypeDirTree
	ObjectTypeDirMeta
	ObjectTypeCommit
	ObjectTypeTombstoneCommit
	ObjectTypeCommitMeta
	ObjectTypePayloadLink
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeFile:            "file",
	ObjectTypeDirTree:         "dirtree",
	ObjectTypeDirMeta:         "dirmeta",
	ObjectTypeCommit:          "commit",
	ObjectTypeTombstoneCommit: "tombstone-commit",
	ObjectTypeCommitMeta:      "commitmeta",
	ObjectTypePayloadLink:     "payload-link",
}

// Valid reports whether t is a known object type.
func (t ObjectType) Valid() bool {
	_, ok := objectTypeNames[t]
	return ok
}

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

// RepoMode is the storage mode of a repository.
type RepoMode string

const (
	RepoModeBare         RepoMode = "bare"
	RepoModeArchive      RepoMode = "archive"
	RepoModeBareUser     RepoMode = "bare-user"
	RepoModeBareUserOnly RepoMode = "bare-user-only"
)

// FormatObjectName renders the canonical "<checksum>.<type>" name of an
// object, the same form ostree_object_to_string produces.
func FormatObjectName(checksum string, t ObjectType) string {
	return checksum + "." + t.String()
}

// ParseObjectName splits an object name back into its checksum and type.
// The "filez" suffix used for compressed file objects in archive
// repositories is accepted and reported as ObjectTypeFile.
func ParseObjectName(name string) (string, ObjectType, error) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", 0, fmt.Errorf("malformed object name %q", name)
	}

	checksum, suffix := name[:i], name[i+1:]
	if suffix == "filez" {
		return checksum, ObjectTypeFile, nil
	}
	for t, n := range objectTypeNames {
		if n == suffix {
			return checksum, t, nil
		}
	}
	return "", 0, fmt.Errorf("unknown object type %q in %q", suffix, name)
}
