// Package profile derives canonical per-facet text from member profiles.
// The derived text is what gets embedded; a blank result means the facet
// has nothing to embed and callers must skip the provider call.
package profile

import (
	"strings"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

// FacetText builds the embedding text for one facet of a profile.
// The intro facet joins name, tagline, and intro; the interests facet
// joins name with labeled interest and strength lists. Blank fields are
// skipped. Returns "" when the facet has no content.
func FacetText(facet string, p *models.Profile) string {
	switch facet {
	case models.NamespaceInterests:
		interests := ""
		if len(p.Interests) > 0 {
			interests = "관심사: " + strings.Join(p.Interests, ", ")
		}
		strengths := ""
		if len(p.Strengths) > 0 {
			strengths = "강점: " + strings.Join(p.Strengths, ", ")
		}
		return utils.JoinNonBlank("\n", p.Name, interests, strengths)
	default:
		return utils.JoinNonBlank("\n", p.Name, p.Tagline, p.Intro)
	}
}

// FullText builds the combined profile text used for keyword indexing.
func FullText(p *models.Profile) string {
	return utils.JoinNonBlank("\n",
		p.Name,
		p.Tagline,
		p.Intro,
		strings.Join(p.Interests, ", "),
		strings.Join(p.Strengths, ", "),
		p.Contact,
	)
}

// RoleText builds the labeled profile block fed to role resolution.
func RoleText(p *models.Profile) string {
	var b strings.Builder
	b.WriteString("이름: ")
	b.WriteString(p.Name)
	b.WriteString("\n한 줄 소개: ")
	b.WriteString(p.Tagline)
	b.WriteString("\n자기소개: ")
	b.WriteString(p.Intro)
	b.WriteString("\n관심사: ")
	b.WriteString(strings.Join(p.Interests, ", "))
	b.WriteString("\n특기: ")
	b.WriteString(strings.Join(p.Strengths, ", "))
	return b.String()
}
