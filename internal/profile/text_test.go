package profile

import (
	"strings"
	"testing"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
)

func TestFacetTextIntro(t *testing.T) {
	p := &models.Profile{
		Name:    "김철수",
		Tagline: "커피를 좋아하는 개발자",
		Intro:   "안녕하세요, 백엔드를 주로 합니다.",
	}
	got := FacetText(models.NamespaceIntro, p)
	want := "김철수\n커피를 좋아하는 개발자\n안녕하세요, 백엔드를 주로 합니다."
	if got != want {
		t.Errorf("FacetText(intro) = %q, want %q", got, want)
	}
}

func TestFacetTextIntroSkipsBlank(t *testing.T) {
	p := &models.Profile{Name: "김철수", Intro: "안녕하세요"}
	got := FacetText(models.NamespaceIntro, p)
	if got != "김철수\n안녕하세요" {
		t.Errorf("FacetText(intro) = %q", got)
	}
}

func TestFacetTextInterests(t *testing.T) {
	p := &models.Profile{
		Name:      "이영희",
		Interests: []string{"등산", "사진"},
		Strengths: []string{"요리"},
	}
	got := FacetText(models.NamespaceInterests, p)
	want := "이영희\n관심사: 등산, 사진\n강점: 요리"
	if got != want {
		t.Errorf("FacetText(interests) = %q, want %q", got, want)
	}
}

func TestFacetTextInterestsEmptyLists(t *testing.T) {
	p := &models.Profile{Name: "이영희"}
	got := FacetText(models.NamespaceInterests, p)
	if got != "이영희" {
		t.Errorf("FacetText(interests) = %q, want name only", got)
	}
}

func TestFacetTextAllBlank(t *testing.T) {
	p := &models.Profile{}
	if got := FacetText(models.NamespaceIntro, p); got != "" {
		t.Errorf("FacetText on empty profile = %q, want empty", got)
	}
	if got := FacetText(models.NamespaceInterests, p); got != "" {
		t.Errorf("FacetText on empty profile = %q, want empty", got)
	}
}

func TestRoleText(t *testing.T) {
	p := &models.Profile{
		Name:      "박민수",
		Tagline:   "모험가",
		Intro:     "새로운 것을 좋아합니다",
		Interests: []string{"보드게임", "여행"},
		Strengths: []string{"추리"},
	}
	got := RoleText(p)
	for _, label := range []string{"이름: 박민수", "한 줄 소개: 모험가", "자기소개: 새로운 것을 좋아합니다", "관심사: 보드게임, 여행", "특기: 추리"} {
		if !strings.Contains(got, label) {
			t.Errorf("RoleText missing %q in %q", label, got)
		}
	}
}

func TestFullTextIncludesContact(t *testing.T) {
	p := &models.Profile{Name: "김철수", Contact: "kakao:cs"}
	got := FullText(p)
	if got != "김철수\nkakao:cs" {
		t.Errorf("FullText = %q", got)
	}
}
