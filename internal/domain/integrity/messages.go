package integrity

// deterrentMessages are shown for suspicious-but-not-rejected submissions.
// Vague on purpose: they discourage resubmission of fabricated proofs
// without revealing which rule fired.
var deterrentMessages = []string{
	"Your submission has been flagged for additional verification. Repeated low-quality proofs may affect your standing.",
	"We noticed some unusual patterns in this submission. Please make sure your proof reflects work you actually completed.",
	"This submission will take longer than usual to process while we run extra quality checks.",
	"Heads up: submissions that cannot be verified may be removed and their points reversed.",
	"Our reviewers take a closer look at submissions like this one. Genuine, detailed proofs are approved much faster.",
}

// opportunityMessages are the engagement nudges occasionally attached to
// accepted submissions. Product behavior, not an integrity signal.
var opportunityMessages = []string{
	"3 recruiters viewed profiles with skills like yours this week.",
	"A new mini-project in your strongest category just opened up.",
	"You're closer to the next rank than 80% of users at your level.",
	"Learners who submit twice a week rank up 3x faster.",
}

// pickDeterrent selects one deterrent message using the injected source.
func (c *HeuristicChecker) pickDeterrent() string {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return deterrentMessages[c.rng.Intn(len(deterrentMessages))]
}

// OpportunityNudge returns an engagement message with nudgeProbability
// chance; ok is false otherwise. Callers attach it to accept
// acknowledgements.
func (c *HeuristicChecker) OpportunityNudge() (string, bool) {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	if c.rng.Float64() >= nudgeProbability {
		return "", false
	}
	return opportunityMessages[c.rng.Intn(len(opportunityMessages))], true
}
