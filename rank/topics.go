package rank

import "github.com/openlanka/adkit/core"

// DefaultCategoryTopics 返回商品类目到兴趣主题的映射表。
// 搜索侧按主题累积兴趣分，投放侧通过这张表把商品挂到对应主题上。
func DefaultCategoryTopics() map[string]core.Topic {
	return map[string]core.Topic{
		"books":        core.TopicEducation,
		"past_papers":  core.TopicEducation,
		"study_guides": core.TopicEducation,
		"courses":      core.TopicEducation,
		"electronics":  core.TopicTechnology,
		"computers":    core.TopicTechnology,
		"phones":       core.TopicTechnology,
		"vehicles":     core.TopicTransport,
		"cars":         core.TopicTransport,
		"bikes":        core.TopicTransport,
		"property":     core.TopicProperty,
		"land":         core.TopicProperty,
		"houses":       core.TopicProperty,
	}
}
