// Package categorize 把人口属性与搜索行为映射为用户分类标签。
// 标签集合是单调增长的并集：重分类只会追加，不会移除已获得的标签。
package categorize

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/openlanka/adkit/core"
)

const (
	// topScoredLimit 注册分类阶段最多追加的行为标签数。
	topScoredLimit = 5
	// registrationThreshold 注册阶段行为标签的入选分数线。
	registrationThreshold = 20
	// searchDeltaThreshold 搜索重分类阶段本轮增量的入选分数线。
	searchDeltaThreshold = 15
)

// Categorizer 是用户分类器：注册时跑一次纯函数分类，
// 此后每次画像重算增量更新。
type Categorizer struct {
	Users core.UserStore

	// 规则表可整体替换（测试注入 fixtures），零值时用默认表。
	AgeBands      []AgeBand
	JobRules      []JobRule
	InterestRules []InterestRule
	UrbanAreas    []string
	TopicBumps    map[core.Topic][]TopicBump

	// Now 可注入时钟，零值时用 time.Now。
	Now func() time.Time
}

// NewCategorizer 以默认规则表构建分类器。
func NewCategorizer(users core.UserStore) *Categorizer {
	return &Categorizer{
		Users:         users,
		AgeBands:      DefaultAgeBands(),
		JobRules:      DefaultJobRules(),
		InterestRules: DefaultInterestRules(),
		UrbanAreas:    DefaultUrbanAreas(),
		TopicBumps:    DefaultTopicBumps(),
	}
}

func (c *Categorizer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CategorizeRegistration 是注册时的纯函数分类。
// 所有子规则相互独立、无条件逐条求值后做并集；
// 行为分累计完成后取前 5 名、分数 ≥ 20 的标签追加进集合，
// 同分时按累积顺序（先加的在前）定序。
func (c *Categorizer) CategorizeRegistration(age int, job, location string, interests []string) *core.Categorization {
	labels := newLabelSet()
	scores := newScoreTable()

	// 年龄段
	if age > 0 {
		for _, band := range c.ageBands() {
			if age < band.Min || (band.Max > 0 && age > band.Max) {
				continue
			}
			labels.add(band.Label)
			scores.bump(band.Bumps)
			break
		}
	}

	// 职业子串规则，多条可同时命中
	if job != "" {
		loweredJob := strings.ToLower(job)
		for _, rule := range c.jobRules() {
			for _, sub := range rule.Substrings {
				if strings.Contains(loweredJob, sub) {
					labels.add(rule.Label)
					scores.bump(rule.Bumps)
					break
				}
			}
		}
	}

	// 申报兴趣，精确小写匹配
	for _, interest := range interests {
		lowered := strings.ToLower(interest)
		for _, rule := range c.interestRules() {
			for _, candidate := range rule.Interests {
				if lowered == candidate {
					scores.bump(rule.Bumps)
					break
				}
			}
		}
	}

	// 城乡二选一，必有其一
	if c.isUrban(location) {
		labels.add("urban_resident")
		scores.bump(UrbanBumps())
	} else {
		labels.add("rural_resident")
	}

	// 行为分前 5 名过线者追加为标签
	for _, top := range scores.top(topScoredLimit) {
		if top.points >= registrationThreshold {
			labels.add(top.category)
		}
	}

	return &core.Categorization{
		Categories:    labels.ordered,
		Scores:        scores.snapshot(),
		CategorizedAt: c.now(),
		Type:          "registration",
	}
}

// RecategorizeFromProfile 依据新算出的画像增量更新分类。
// 行为分做加法合并（从不重置）；本轮 delta 过线且未持有的标签被追加。
// 用户不存在时安静跳过，不让搜索追踪反过来打断搜索请求。
func (c *Categorizer) RecategorizeFromProfile(ctx context.Context, userID string, p *core.InterestProfile) error {
	if p == nil {
		return nil
	}
	user, err := c.Users.GetUser(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return err
	}

	current := user.Categorization
	if current == nil {
		current = &core.Categorization{Scores: make(map[string]int)}
	}
	if current.Scores == nil {
		current.Scores = make(map[string]int)
	}

	for _, topic := range core.Topics() {
		hits := p.InterestScore(topic)
		if hits <= 0 {
			continue
		}
		for _, bump := range c.topicBumps()[topic] {
			delta := hits * bump.Weight
			current.Scores[bump.Category] += delta
			if delta >= searchDeltaThreshold {
				current.Add(bump.Category)
			}
		}
	}

	// 活跃度标签来自搜索频率，不走分数线
	if p.SearchFrequency == core.FrequencyActive || p.SearchFrequency == core.FrequencyVeryActive {
		current.Add("power_user")
		current.Add("engaged_user")
	}

	current.RecategorizedAt = c.now()
	current.Type = "search_behavior"

	return c.Users.SaveCategorization(ctx, userID, current)
}

func (c *Categorizer) isUrban(location string) bool {
	if location == "" {
		return false
	}
	lowered := strings.ToLower(location)
	areas := c.UrbanAreas
	if areas == nil {
		areas = DefaultUrbanAreas()
	}
	for _, city := range areas {
		if strings.Contains(lowered, city) {
			return true
		}
	}
	return false
}

func (c *Categorizer) ageBands() []AgeBand {
	if c.AgeBands != nil {
		return c.AgeBands
	}
	return DefaultAgeBands()
}

func (c *Categorizer) jobRules() []JobRule {
	if c.JobRules != nil {
		return c.JobRules
	}
	return DefaultJobRules()
}

func (c *Categorizer) interestRules() []InterestRule {
	if c.InterestRules != nil {
		return c.InterestRules
	}
	return DefaultInterestRules()
}

func (c *Categorizer) topicBumps() map[core.Topic][]TopicBump {
	if c.TopicBumps != nil {
		return c.TopicBumps
	}
	return DefaultTopicBumps()
}

// labelSet 是保序去重集合。
type labelSet struct {
	seen    map[string]bool
	ordered []string
}

func newLabelSet() *labelSet {
	return &labelSet{seen: make(map[string]bool), ordered: []string{}}
}

func (s *labelSet) add(label string) {
	if s.seen[label] {
		return
	}
	s.seen[label] = true
	s.ordered = append(s.ordered, label)
}

// scoreTable 是保序行为分表：同分标签按首次加分顺序排列。
type scoreTable struct {
	points map[string]int
	order  []string
}

func newScoreTable() *scoreTable {
	return &scoreTable{points: make(map[string]int)}
}

func (t *scoreTable) bump(bumps []ScoreBump) {
	for _, b := range bumps {
		if _, seen := t.points[b.Category]; !seen {
			t.order = append(t.order, b.Category)
		}
		t.points[b.Category] += b.Points
	}
}

type scored struct {
	category string
	points   int
}

func (t *scoreTable) top(n int) []scored {
	out := make([]scored, 0, len(t.order))
	for _, cat := range t.order {
		out = append(out, scored{category: cat, points: t.points[cat]})
	}
	// 稳定排序：同分保持首次加分顺序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].points > out[j].points
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (t *scoreTable) snapshot() map[string]int {
	out := make(map[string]int, len(t.points))
	for k, v := range t.points {
		out[k] = v
	}
	return out
}
