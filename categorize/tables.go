package categorize

import "github.com/openlanka/adkit/core"

// 规则表与主题权重都是固定配置数据，拆出来便于测试替换与版本化，
// 分类逻辑本身不持有任何常量。

// ScoreBump 是一条行为分加分：某标签加固定分值。
type ScoreBump struct {
	Category string
	Points   int
}

// AgeBand 是一个年龄段规则：命中后添加一个人口标签并做若干行为分加分。
type AgeBand struct {
	Min   int // 含
	Max   int // 含；0 表示不设上限
	Label string
	Bumps []ScoreBump
}

// DefaultAgeBands 返回默认年龄段规则（五段互斥，按顺序首个命中生效）。
func DefaultAgeBands() []AgeBand {
	return []AgeBand{
		{Min: 1, Max: 24, Label: "young_adult", Bumps: []ScoreBump{
			{"education_seeker", 30}, {"tech_enthusiast", 20},
		}},
		{Min: 25, Max: 35, Label: "early_career", Bumps: []ScoreBump{
			{"career_focused", 30}, {"property_seeker", 10},
		}},
		{Min: 36, Max: 45, Label: "mid_career_family", Bumps: []ScoreBump{
			{"family_oriented", 30}, {"property_seeker", 20}, {"vehicle_buyer", 20},
		}},
		{Min: 46, Max: 60, Label: "established_professional", Bumps: []ScoreBump{
			{"investment_focused", 30}, {"property_investor", 25},
		}},
		{Min: 61, Max: 0, Label: "senior", Bumps: []ScoreBump{
			{"health_focused", 20},
		}},
	}
}

// JobRule 是职业子串规则。各条规则相互独立、无条件逐条求值：
// 一份职业文本可以同时命中多条（如 "IT Manager"）。
type JobRule struct {
	Substrings []string
	Label      string
	Bumps      []ScoreBump
}

// DefaultJobRules 返回默认职业规则。
func DefaultJobRules() []JobRule {
	return []JobRule{
		{Substrings: []string{"government", "officer"}, Label: "government_employee", Bumps: []ScoreBump{
			{"education_seeker", 25}, {"course_buyer", 20},
		}},
		{Substrings: []string{"teacher", "lecturer", "professor"}, Label: "education_professional", Bumps: []ScoreBump{
			{"book_buyer", 40}, {"course_creator", 30},
		}},
		{Substrings: []string{"engineer", "developer", "it", "tech"}, Label: "tech_professional", Bumps: []ScoreBump{
			{"tech_enthusiast", 40}, {"electronics_buyer", 35},
		}},
		{Substrings: []string{"manager", "director", "ceo", "executive"}, Label: "management", Bumps: []ScoreBump{
			{"vehicle_buyer", 30}, {"property_investor", 25},
		}},
		{Substrings: []string{"business", "entrepreneur", "owner"}, Label: "business_owner", Bumps: []ScoreBump{
			{"investment_focused", 35}, {"property_investor", 30},
		}},
		{Substrings: []string{"student"}, Label: "student", Bumps: []ScoreBump{
			{"education_seeker", 50}, {"book_buyer", 45}, {"past_paper_buyer", 40},
		}},
	}
}

// InterestRule 是申报兴趣规则，兴趣值做精确小写匹配。
type InterestRule struct {
	Interests []string
	Bumps     []ScoreBump
}

// DefaultInterestRules 返回默认兴趣词表规则。
func DefaultInterestRules() []InterestRule {
	return []InterestRule{
		{Interests: []string{"education", "learning"}, Bumps: []ScoreBump{
			{"education_seeker", 35}, {"course_buyer", 30}, {"book_buyer", 25},
		}},
		{Interests: []string{"technology", "tech", "computers"}, Bumps: []ScoreBump{
			{"tech_enthusiast", 35}, {"electronics_buyer", 30},
		}},
		{Interests: []string{"business", "entrepreneurship"}, Bumps: []ScoreBump{
			{"business_oriented", 35}, {"course_buyer", 20},
		}},
		{Interests: []string{"health", "fitness", "wellness"}, Bumps: []ScoreBump{
			{"health_focused", 35},
		}},
		{Interests: []string{"transport", "vehicles", "cars"}, Bumps: []ScoreBump{
			{"vehicle_buyer", 40},
		}},
		{Interests: []string{"housing", "property", "real estate"}, Bumps: []ScoreBump{
			{"property_seeker", 40},
		}},
		{Interests: []string{"employment", "jobs", "career"}, Bumps: []ScoreBump{
			{"career_focused", 35}, {"course_buyer", 25},
		}},
	}
}

// DefaultUrbanAreas 返回城镇中心名单，位置文本做子串匹配。
// 命中为 urban_resident，否则 rural_resident，两者互斥且必有其一。
func DefaultUrbanAreas() []string {
	return []string{"colombo", "kandy", "gampaha", "negombo", "moratuwa"}
}

// UrbanBumps 是城镇居民附带的行为分加分。
func UrbanBumps() []ScoreBump {
	return []ScoreBump{{"tech_enthusiast", 10}, {"electronics_buyer", 10}}
}

// TopicBump 是搜索重分类规则：主题兴趣分按权重折算到行为标签。
// 本轮 delta = 主题分 × Weight，delta 达到阈值的标签被追加。
type TopicBump struct {
	Category string
	Weight   int
}

// DefaultTopicBumps 返回主题到行为标签的折算表。
func DefaultTopicBumps() map[core.Topic][]TopicBump {
	return map[core.Topic][]TopicBump{
		core.TopicEducation:   {{"education_seeker", 5}, {"course_buyer", 4}},
		core.TopicTechnology:  {{"tech_enthusiast", 5}, {"electronics_buyer", 6}},
		core.TopicTransport:   {{"vehicle_buyer", 6}},
		core.TopicProperty:    {{"property_seeker", 6}, {"property_investor", 4}},
		core.TopicEmployment:  {{"career_focused", 5}},
		core.TopicBusiness:    {{"business_owner", 5}, {"entrepreneur", 4}},
		core.TopicHealth:      {{"health_focused", 5}},
		core.TopicImmigration: {{"travel_seeker", 5}, {"passport_applicant", 4}},
	}
}

// Explanations 返回全部标签的语义说明，供运营后台展示。
func Explanations() map[string]map[string]string {
	return map[string]map[string]string{
		"demographic": {
			"young_adult":              "Users under 25 years old",
			"early_career":             "Users aged 25-35",
			"mid_career_family":        "Users aged 36-45 with family",
			"established_professional": "Users aged 46-60",
			"senior":                   "Users over 60",
			"urban_resident":           "Lives in urban area",
			"rural_resident":           "Lives in rural area",
		},
		"professional": {
			"government_employee":    "Works in government sector",
			"education_professional": "Teacher/lecturer/professor",
			"tech_professional":      "IT/Engineering professional",
			"management":             "Manager or executive",
			"business_owner":         "Business owner/entrepreneur",
			"student":                "Current student",
		},
		"behavioral": {
			"education_seeker":   "Interested in education and courses",
			"course_buyer":       "Likely to purchase courses",
			"book_buyer":         "Interested in books",
			"past_paper_buyer":   "Interested in past papers",
			"tech_enthusiast":    "Interested in technology",
			"electronics_buyer":  "Likely to buy electronics",
			"vehicle_buyer":      "Interested in vehicles",
			"property_seeker":    "Looking for property",
			"property_investor":  "Property investment interest",
			"career_focused":     "Career development focused",
			"investment_focused": "Investment opportunities",
			"health_focused":     "Health and wellness interest",
			"travel_seeker":      "Overseas travel interest",
			"family_oriented":    "Family-focused purchases",
			"power_user":         "Highly active searcher",
			"engaged_user":       "Regularly engaged searcher",
		},
	}
}
