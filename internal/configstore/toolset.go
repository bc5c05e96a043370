package configstore

import (
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
)

// legacyExtensions are project formats this tools-version line cannot build.
// They fail fast with a descriptive error instead of being sniffed.
var legacyExtensions = map[string]struct{}{
	".vcproj": {},
	".dsp":    {},
}

func checkProjectFormat(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, legacy := legacyExtensions[ext]; legacy {
		return domain.WithDetail(domain.WithDetail(domain.ErrLegacyProjectFormat, "path", path), "extension", ext)
	}
	return nil
}

// sniffToolsVersion reads the ToolsVersion attribute off the project file's
// root element without evaluating the project.
func sniffToolsVersion(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // project path comes from the build request
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.WithDetail(domain.ErrProjectNotFound, "path", path)
		}
		return "", domain.WithDetail(domain.ErrToolsVersionUnreadable, "cause", err.Error())
	}
	defer func() { _ = f.Close() }()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", domain.WithDetail(domain.ErrToolsVersionUnreadable, "path", path)
			}
			return "", domain.WithDetail(domain.ErrToolsVersionUnreadable, "cause", err.Error())
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			if strings.EqualFold(attr.Name.Local, "ToolsVersion") {
				return attr.Value, nil
			}
		}
		// Root element reached without the attribute; nothing deeper
		// can declare it.
		return "", nil
	}
}

// DefaultResolver is the in-process toolset resolver: the explicit version
// wins, then an operator override from the environment, then the sniffed
// version, then the default.
type DefaultResolver struct{}

// EnvToolsVersion is the operator override consulted during resolution.
const EnvToolsVersion = "FORGE_TOOLS_VERSION"

// Resolve implements ports.ToolsetResolver.
func (DefaultResolver) Resolve(explicit, sniffed, defaultVersion string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvToolsVersion); env != "" {
		return env, nil
	}
	if sniffed != "" {
		return sniffed, nil
	}
	return defaultVersion, nil
}
