package apt

import (
	"strings"

	"github.com/ralt/webapt/internal/models"
)

// ParsePackages parses a Packages index into package records, in document order.
//
// Stanzas are separated by a blank line. Only Package, Version and Filename are
// read, each from its own line without continuation folding. A stanza that
// lacks any of the three is dropped.
func ParsePackages(content string) []models.Package {
	var packages []models.Package

	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var pkg models.Package
		for _, line := range strings.Split(block, "\n") {
			key, value, ok := strings.Cut(line, ": ")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)

			switch ControlField(key) {
			case FieldPackage:
				pkg.Name = value
			case FieldVersion:
				pkg.Version = value
			case FieldFilename:
				pkg.Filename = value
			}
		}

		if pkg.Name == "" || pkg.Version == "" || pkg.Filename == "" {
			continue
		}
		packages = append(packages, pkg)
	}

	return packages
}
