package watchlist

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/codeinsight-tools/inventory-audit/utils"
)

// Default is the list of security-sensitive components audited when no file is given.
var Default = []string{"druid", "dubbo", "elasticsearch", "flink", "flume", "kafka", "log4j", "logstash", "solr", "struts"}

// File is the on-disk watch-list.
//
//	terms:
//	  - log4j
//	  - struts
//	ignoredProjects:
//	  - Sandbox
type File struct {
	Terms           []string `yaml:"terms"`
	IgnoredProjects []string `yaml:"ignoredProjects"`
}

// Load reads and normalizes a watch-list file.
func Load(fs afero.Fs, path string) (File, error) {
	b, err := utils.NewFs(fs).ReadFile(path)
	if err != nil {
		return File{}, xerrors.Errorf("failed to read watch-list: %w", err)
	}

	var f File
	if err = yaml.Unmarshal(b, &f); err != nil {
		return File{}, xerrors.Errorf("unable to parse yaml %s: %w", path, err)
	}

	f.Terms = Normalize(f.Terms)
	if len(f.Terms) == 0 {
		return File{}, xerrors.Errorf("watch-list %s has no terms", path)
	}
	f.IgnoredProjects = lo.Uniq(lo.FilterMap(f.IgnoredProjects, func(name string, _ int) (string, bool) {
		name = utils.TrimSpaceNewline(name)
		return name, name != ""
	}))
	return f, nil
}

// Normalize lower-cases and trims terms, dropping empty and duplicate
// entries while keeping first-seen order. Order matters to the matcher.
func Normalize(terms []string) []string {
	return lo.Uniq(lo.FilterMap(terms, func(term string, _ int) (string, bool) {
		term = strings.ToLower(utils.TrimSpaceNewline(term))
		return term, term != ""
	}))
}
