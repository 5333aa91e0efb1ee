package platform

import (
	"path/filepath"

	"github.com/specialistvlad/makeplatform/internal/fsutil"
	"github.com/specialistvlad/makeplatform/internal/perrors"
)

// configDirCandidates are checked in order under the project directory;
// the first one that exists wins (spec.md §4.1).
var configDirCandidates = []string{".enb", ".bem"}

// primaryMakefileCandidates are checked in order inside the config
// directory for the "make" kind.
var primaryMakefileCandidates = []string{"enb-make.hcl", "make.hcl"}

// discoverConfigDir returns the first existing candidate config directory
// under the project directory, or a ConfigDirNotFoundError if none exists.
func (p *Platform) discoverConfigDir() (string, error) {
	for _, candidate := range configDirCandidates {
		dir := filepath.Join(p.projectDir, candidate)
		if fsutil.IsDir(dir) {
			return dir, nil
		}
	}
	return "", &perrors.ConfigDirNotFoundError{ProjectDir: p.projectDir}
}

// getMakeFile resolves a rule file by kind: "make" for the required
// primary rule file, "make.personal" for the optional developer-local
// override (<name>.personal.hcl for each primary candidate).
func (p *Platform) getMakeFile(kind string) (string, error) {
	switch kind {
	case "make":
		for _, candidate := range primaryMakefileCandidates {
			path := filepath.Join(p.configDir, candidate)
			if fsutil.Exists(path) {
				return path, nil
			}
		}
		return "", &perrors.MakefileNotFoundError{ConfigDir: p.configDir}
	case "make.personal":
		for _, candidate := range primaryMakefileCandidates {
			ext := filepath.Ext(candidate)
			base := candidate[:len(candidate)-len(ext)]
			personal := filepath.Join(p.configDir, base+".personal"+ext)
			if fsutil.Exists(personal) {
				return personal, nil
			}
		}
		return "", &perrors.MakefileNotFoundError{ConfigDir: p.configDir}
	default:
		return "", &perrors.MakefileNotFoundError{ConfigDir: p.configDir}
	}
}
