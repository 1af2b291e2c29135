package ruleset

func koRuleSet() *RuleSet {
	kw := keywords(
		recordKeywords,
		same(Pet, "에기", "요정", "카벙클", "자동포탑", "데미바하무트", "지상의 별"),
		same(Cast, "시전합니다.", "starts using"),
		hpRateKeywords,
		same(Marker, "] 1B:", "「マーキング」"),
		effectKeywords,
		dialogueKeywords,
		same(Start, ImportLog, "/spespetime -a start", "00:0039:전투 시작!"),
		same(TimelineStart, "00:0039:전투 시작 5초 전!"),
		same(End, "/spespetime -a end", "공략을 종료했습니다.", "입찰을 진행하십시오", WipeoutLog),
		same(Action, "시전했습니다."),
	)
	return newRuleSet(KO, "0039:전투 시작!", "다음은 %s.", kw, extractors(KO,
		`\[.+?\] 00:....:(?P<actor>.+?)(이|가) (?P<skill>.+?)(을|를) 시전했습니다\.$`,
		`\[.+?\] 00:....:(?P<actor>.+?)(이|가) (?P<skill>.+?)(을|를) 시전합니다\.$`,
		`00:(?P<id>....):(?P<target>.+?)に「マーキング」の効果。`,
	))
}
