// Package adkit 是公民服务门户的兴趣画像与广告排序引擎（Ad Kit）。
//
// 设计要点：
// - Pipeline-first: 广告投放逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first: 打分各分项以 Label 全链路透传，支持 explain / 观测 / 策略驱动
// - 画像即函数: InterestProfile 由搜索事件日志在固定窗口内纯函数式重算，可随时重建
// - 降级优先: 广告展示路径不向调用方抛错，任何失败都回退到热门兜底位
package adkit

import "github.com/openlanka/adkit/pipeline"

// 轻量 facade：便于用户直接 import "adkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
