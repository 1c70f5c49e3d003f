package harvester

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/llm-provider-kit/internal/catalog"
)

// Listing is one model as reported by a vendor's listing endpoint, after the
// vendor filter and before dedup.
type Listing struct {
	ID string

	// Base groups listings that are versions of the same model.
	Base    string
	Version string

	// Downloads replaces Version as the dedup key for HuggingFace.
	Downloads int

	// Window is the context size in tokens; 0 when the vendor does not say.
	Window int
	Info   []catalog.Field
}

func (l Listing) info() catalog.InfoBlock {
	return catalog.InfoBlock{ID: l.ID, Fields: l.Info}
}

// preferFunc reports whether candidate should replace current in its group.
type preferFunc func(candidate, current Listing) bool

func preferNewer(candidate, current Listing) bool {
	return compareVersions(candidate.Version, current.Version) > 0
}

func preferDownloads(candidate, current Listing) bool {
	return candidate.Downloads > current.Downloads
}

// dedup keeps one listing per Base and returns the survivors sorted by ID.
func dedup(listings []Listing, prefer preferFunc) []Listing {
	kept := make(map[string]Listing, len(listings))
	for _, l := range listings {
		current, ok := kept[l.Base]
		if !ok || prefer(l, current) {
			kept[l.Base] = l
		}
	}

	out := make([]Listing, 0, len(kept))
	for _, l := range kept {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// compareVersions orders version strings numerically when both parse as
// versions ("2407" < "2411", "9" < "10"), otherwise lexically.
func compareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

const (
	noVersion = "000"

	// latestVersion ranks "-latest" aliases above any dated release.
	latestVersion = "999999"
)

// splitColon groups "org/name:tag" by "org/name"; the tag is the version.
func splitColon(id string) (base, ver string) {
	base, ver, ok := strings.Cut(id, ":")
	if !ok {
		return id, noVersion
	}
	return base, ver
}

// splitTrailingNumber groups "codestral-2405" by "codestral"; ids without a
// numeric last segment are their own group.
func splitTrailingNumber(id string) (base, ver string) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || !isDigits(id[i+1:]) {
		return id, noVersion
	}
	return id[:i], id[i+1:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
