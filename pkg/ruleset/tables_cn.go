package ruleset

func cnRuleSet() *RuleSet {
	kw := keywords(
		recordKeywords,
		same(Pet, "之灵", "朝日小仙女", "夕月小仙女", "宝石兽", "浮空塔", "亚灵神巴哈姆特", "地星"),
		same(Cast, "正在咏唱", "正在发动", "starts using"),
		hpRateKeywords,
		same(Marker, "] 1B:", "陷入了“猎物”效果"),
		effectKeywords,
		dialogueKeywords,
		same(Start, ImportLog, "/spespetime -a start", "00:0039:战斗开始！"),
		same(TimelineStart, "00:0039:距离战斗开始还有5秒！"),
		same(End, "/spespetime -a end", "结束了", "00:0839:请掷骰。", WipeoutLog),
		same(Action, "发动了"),
	)
	return newRuleSet(CN, "0039:战斗开始！", "下一个是%s。", kw, extractors(CN,
		`\[.+?\] 00:....:(?P<actor>.+?)发动了“(?P<skill>.+?)”。$`,
		`\[.+?\] 00:....:(?P<actor>.+?)(正在发动|正在咏唱)“(?P<skill>.+?)”。$`,
		`00:(?P<id>....):(?P<target>.+?)陷入了“猎物”效果。$`,
	))
}
