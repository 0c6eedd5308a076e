package signal

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/openlanka/adkit/core"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "lowercase and split",
			query: "Driving License Renewal",
			want:  []string{"driving", "license", "renewal"},
		},
		{
			name:  "drop short tokens",
			query: "o l exam past paper",
			want:  []string{"exam", "past", "paper"},
		},
		{
			name:  "collapse whitespace",
			query: "  laptop   price  ",
			want:  []string{"laptop", "price"},
		},
		{
			name:  "empty query",
			query: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLexicon_MatchCount(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		name     string
		keywords []string
		topic    core.Topic
		want     int
	}{
		{
			name:     "distinct education hits",
			keywords: []string{"exam", "tuition", "laptop"},
			topic:    core.TopicEducation,
			want:     2,
		},
		{
			name:     "license counts for both business and transport",
			keywords: []string{"license"},
			topic:    core.TopicTransport,
			want:     1,
		},
		{
			name:     "no hits",
			keywords: []string{"weather", "news"},
			topic:    core.TopicHealth,
			want:     0,
		},
		{
			name:     "empty keyword set",
			keywords: nil,
			topic:    core.TopicEducation,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lex.MatchCount(tt.keywords, tt.topic); got != tt.want {
				t.Errorf("MatchCount(%v, %s) = %d, want %d", tt.keywords, tt.topic, got, tt.want)
			}
		})
	}
}

func TestLexicon_Scores(t *testing.T) {
	lex := DefaultLexicon()
	scores := lex.Scores([]string{"exam", "laptop", "visa", "phone"})

	if scores[core.TopicEducation] != 1 {
		t.Errorf("education score = %d, want 1", scores[core.TopicEducation])
	}
	if scores[core.TopicTechnology] != 2 {
		t.Errorf("technology score = %d, want 2", scores[core.TopicTechnology])
	}
	if scores[core.TopicImmigration] != 1 {
		t.Errorf("immigration score = %d, want 1", scores[core.TopicImmigration])
	}
	// 每个主题都要有条目，未命中为 0
	if len(scores) != len(core.Topics()) {
		t.Errorf("score table has %d topics, want %d", len(scores), len(core.Topics()))
	}
	if scores[core.TopicHealth] != 0 {
		t.Errorf("health score = %d, want 0", scores[core.TopicHealth])
	}
}

func TestLoadLexicon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := "education: [Exam, Algebra]\ntechnology: [drone]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon() error = %v", err)
	}

	// 覆盖的主题用文件词表（统一小写）
	if got := lex.MatchCount([]string{"algebra"}, core.TopicEducation); got != 1 {
		t.Errorf("overridden education match = %d, want 1", got)
	}
	if got := lex.MatchCount([]string{"school"}, core.TopicEducation); got != 0 {
		t.Errorf("default word survived override, match = %d, want 0", got)
	}
	// 未覆盖的主题沿用默认表
	if got := lex.MatchCount([]string{"visa"}, core.TopicImmigration); got != 1 {
		t.Errorf("default immigration match = %d, want 1", got)
	}
}
