package service

import "math/rand"

// reflectionPrompts are the opening questions shown in the reflection stage.
var reflectionPrompts = []string{
	"What did you accomplish recently that you're proud of?",
	"What problem did you solve this week?",
	"What impact did your work have on your team or organization?",
	"What did you ship, fix, or improve lately?",
	"What would you want your future self to remember about this week?",
	"Which of your recent contributions deserves a spot on your resume?",
}

// ChoosePrompt draws one reflection prompt uniformly from the fixed list. The
// random source is explicit so the draw is reproducible in tests.
func ChoosePrompt(rng *rand.Rand) string {
	return reflectionPrompts[rng.Intn(len(reflectionPrompts))]
}
