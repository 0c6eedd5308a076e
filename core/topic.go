package core

// Topic 是固定的八个兴趣主题。搜索行为的关键词命中沿主题维度累积，
// 排序阶段通过商品类目到主题的映射读取对应的兴趣分。
type Topic string

const (
	TopicEducation   Topic = "education"
	TopicHealth      Topic = "health"
	TopicBusiness    Topic = "business"
	TopicEmployment  Topic = "employment"
	TopicTechnology  Topic = "technology"
	TopicTransport   Topic = "transport"
	TopicProperty    Topic = "property"
	TopicImmigration Topic = "immigration"
)

// Topics 按固定顺序返回全部主题，保证遍历结果可复现。
func Topics() []Topic {
	return []Topic{
		TopicEducation,
		TopicHealth,
		TopicBusiness,
		TopicEmployment,
		TopicTechnology,
		TopicTransport,
		TopicProperty,
		TopicImmigration,
	}
}
