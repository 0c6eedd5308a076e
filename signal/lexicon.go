// Package signal 把搜索词转换为主题信号：分词、词表命中、主题计分。
package signal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openlanka/adkit/core"
)

// Lexicon 是主题到关键词表的映射。
// 词表是可版本化的配置数据：既可用内置默认表，也可从 YAML 加载替换，
// 测试替换词表不需要触碰计分逻辑。
type Lexicon map[core.Topic][]string

// DefaultLexicon 返回内置的八个主题词表。
func DefaultLexicon() Lexicon {
	return Lexicon{
		core.TopicEducation: {
			"school", "education", "course", "class", "study", "exam", "test",
			"book", "paper", "university", "college", "teacher", "student",
			"o/l", "a/l", "grade", "tuition", "scholarship", "admission",
		},
		core.TopicHealth: {
			"health", "hospital", "doctor", "clinic", "medical", "medicine",
			"treatment", "disease", "vaccine", "appointment", "surgery",
		},
		core.TopicBusiness: {
			"business", "register", "company", "tax", "license", "permit",
			"trade", "enterprise", "startup", "vat", "commercial",
		},
		core.TopicEmployment: {
			"job", "work", "employment", "career", "salary", "position",
			"hiring", "vacancy", "resume", "interview", "training",
		},
		core.TopicTechnology: {
			"computer", "software", "internet", "online", "digital", "app",
			"website", "tech", "electronic", "mobile", "phone", "laptop",
		},
		core.TopicTransport: {
			"vehicle", "car", "license", "driving", "transport", "road",
			"traffic", "motor", "registration", "bike", "bus",
		},
		core.TopicProperty: {
			"land", "house", "property", "deed", "building", "real estate",
			"rent", "buy", "apartment", "home", "construction",
		},
		core.TopicImmigration: {
			"passport", "visa", "travel", "immigration", "embassy",
			"foreign", "abroad", "migration", "citizen",
		},
	}
}

// LoadLexicon 从 YAML 文件加载词表，文件里缺失的主题沿用默认表。
//
// 文件格式：
//
//	education: [school, course, exam]
//	technology: [laptop, phone]
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := DefaultLexicon()
	for topic, words := range raw {
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			lowered = append(lowered, strings.ToLower(w))
		}
		lex[core.Topic(topic)] = lowered
	}
	return lex, nil
}

// Tokenize 把查询串切成关键词：小写、按空白切分、丢弃长度 <= 2 的 token。
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// MatchCount 统计 keywords 中命中主题词表的个数。
// keywords 预期是去重后的词表（TopKeywords），同一个词只计一次：
// 主题分在词表交集的基数处饱和，不随原始词频增长。
func (l Lexicon) MatchCount(keywords []string, topic core.Topic) int {
	vocab := l[topic]
	if len(vocab) == 0 || len(keywords) == 0 {
		return 0
	}
	set := make(map[string]bool, len(vocab))
	for _, w := range vocab {
		set[w] = true
	}
	matches := 0
	for _, kw := range keywords {
		if set[kw] {
			matches++
		}
	}
	return matches
}

// Scores 对全部主题跑一遍 MatchCount，得到兴趣分表。
func (l Lexicon) Scores(keywords []string) map[core.Topic]int {
	scores := make(map[core.Topic]int, len(core.Topics()))
	for _, topic := range core.Topics() {
		scores[topic] = l.MatchCount(keywords, topic)
	}
	return scores
}
