package ruleset

func enRuleSet() *RuleSet {
	kw := keywords(
		recordKeywords,
		same(Pet, "-Egi", "Eos", "Selene", "Carbuncle", "Autoturret", "Demi-Bahamut", "Earthly Star"),
		same(Cast, "begins casting", "readies", "starts using"),
		hpRateKeywords,
		same(Marker, "] 1B:", "suffers the effect of Prey."),
		effectKeywords,
		dialogueKeywords,
		same(Start, ImportLog, "/spespetime -a start", "00:0039:Engage!"),
		same(TimelineStart, "00:0039:Battle commencing in 5 seconds!"),
		same(End, "/spespetime -a end", "has ended.", "Cast your lot.", WipeoutLog),
		same(Action, "uses"),
	)
	return newRuleSet(EN, "0039:Engage!", "Next: %s", kw, extractors(EN,
		`\[.+?\] 00:....:(?P<actor>.+?) uses (?P<skill>.+?)\.$`,
		`\[.+?\] 00:....:(?P<actor>.+?) (readies|begins casting) (?P<skill>.+?)\.$`,
		`00:(?P<id>....):(?P<target>.+?) suffers the effect of Prey\.$`,
	))
}
