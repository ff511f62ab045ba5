package agent

import "scam-honeypot/internal/domain/model"

type templateSet map[string][]string // language -> replies

var templates = map[model.Strategy]templateSet{
	model.StrategyDelay: {
		model.DefaultLanguage: {
			"sorry who is this? i am little busy right now",
			"hello? i just saw your message, what is this about",
			"one minute i am in the middle of something",
		},
		LanguageHinglish: {
			"haan ji kaun bol raha hai? abhi thoda busy hoon",
			"ek minute ruko, kya baat hai",
		},
	},
	model.StrategyBuildRapport: {
		model.DefaultLanguage: {
			"oh ok, which company are you calling from?",
			"i am getting worried now, can you tell me your name please",
			"is this from my bank? nobody told me anything",
		},
		LanguageHinglish: {
			"accha aap kaunse company se ho?",
			"mujhe tension ho rahi hai, aapka naam kya hai",
		},
	},
	model.StrategyFeignConfusion: {
		model.DefaultLanguage: {
			"i did not understand, what should i do exactly",
			"sorry i am not good with these things, can you explain again",
			"what do you mean? my account was fine yesterday",
		},
		LanguageHinglish: {
			"samajh nahi aaya, mujhe kya karna hai exactly",
			"thoda aaram se batao na, mujhe ye sab nahi aata",
		},
	},
	model.StrategyStallForTime: {
		model.DefaultLanguage: {
			"wait my phone is very slow, it is still loading",
			"i am trying but the app is showing some error",
			"give me five minutes, my son knows these things",
		},
		LanguageHinglish: {
			"ruko phone hang ho raha hai",
			"app mein error aa raha hai, thoda wait karo",
		},
	},
	model.StrategyExtractPayment: {
		model.DefaultLanguage: {
			"ok i will pay, which upi id should i send to",
			"can you send the payment link again, it did not open",
			"where exactly do i send the money? please give full details",
		},
		LanguageHinglish: {
			"theek hai pay kar deta hoon, upi id bhejo",
			"link phir se bhejo, khul nahi raha",
		},
	},
	model.StrategyExtractIdentity: {
		model.DefaultLanguage: {
			"before i do anything what is your employee id",
			"can you give me a number i can call you back on",
			"what is your full name and branch? i want to note it down",
		},
		LanguageHinglish: {
			"aapka employee id kya hai? note kar leta hoon",
			"koi number do jispe main call back kar saku",
		},
	},
	model.StrategyExtractBank: {
		model.DefaultLanguage: {
			"upi is not working for me, can i do bank transfer? send account number",
			"my app asks for account number and ifsc, what should i put",
			"which bank account should the money go to?",
		},
		LanguageHinglish: {
			"upi nahi chal raha, account number aur ifsc bhejo",
			"bank transfer kar du kya? details bhejo",
		},
	},
	model.StrategyEscalateTrust: {
		model.DefaultLanguage: {
			"ok i trust you, tell me the next step",
			"thank you for helping, i want to finish this today",
			"fine i am ready, just tell me what to do now",
		},
		LanguageHinglish: {
			"theek hai bharosa hai, aage kya karna hai",
			"aaj hi khatam karte hain, batao kya karu",
		},
	},
}

// TemplateReply picks a canned reply for the strategy and language, skipping
// ones already used in this session. It always returns a non-empty string.
func TemplateReply(strategy model.Strategy, language string, used []string) string {
	set, ok := templates[strategy]
	if !ok {
		set = templates[model.StrategyDelay]
	}
	options := set[language]
	if len(options) == 0 {
		options = set[model.DefaultLanguage]
	}

	seen := make(map[string]struct{}, len(used))
	for _, u := range used {
		seen[u] = struct{}{}
	}
	for _, o := range options {
		if _, ok := seen[o]; !ok {
			return o
		}
	}
	// everything used: cycle deterministically
	return options[len(used)%len(options)]
}
