package ruleset

func jaRuleSet() *RuleSet {
	kw := keywords(
		recordKeywords,
		same(Pet, "・エギ", "フェアリー・", "カーバンクル・", "オートタレット", "デミ・バハムート", "アーサリースター"),
		same(Cast, "を唱えた。", "の構え。", "starts using"),
		hpRateKeywords,
		same(Marker, "] 1B:", "「マーキング」"),
		effectKeywords,
		dialogueKeywords,
		same(Start, ImportLog, "/spespetime -a start", "00:0039:戦闘開始"),
		same(TimelineStart, "00:0039:戦闘開始まで5秒！"),
		same(End, "/spespetime -a end", "の攻略を終了した。", "ロットを行ってください。", WipeoutLog),
		same(Action, "「", "」"),
	)
	return newRuleSet(JA, "0039:戦闘開始！", "次は、%s。", kw, extractors(JA,
		`\[.+?\] 00:....:(?P<actor>.+?)の「(?P<skill>.+?)」$`,
		`\[.+?\] 00:....:(?P<actor>.+?)は「(?P<skill>.+?)」(を唱えた。|の構え。)$`,
		`00:(?P<id>....):(?P<target>.+?)に「マーキング」の効果。`,
	))
}
