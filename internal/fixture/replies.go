package fixture

import "fmt"

// GeneratingReply is the answer to flags and queries while emails are still
// being generated.
const GeneratingReply = "Messages are being generated. One moment please."

// flagReply picks the coaching reply for the user's decision on s.
func flagReply(s Sample, userSaysPhishing bool) string {
	analysis := s.Analysis
	if analysis == "" {
		analysis = "Look closely at the sender address, the links and the tone of the request."
	}
	switch {
	case s.IsPhishing && userSaysPhishing:
		return fmt.Sprintf("Well spotted! %q is a phishing email. %s", s.Subject, analysis)
	case !s.IsPhishing && userSaysPhishing:
		return fmt.Sprintf("Good caution, but %q is legitimate. %s", s.Subject, analysis)
	case s.IsPhishing && !userSaysPhishing:
		return fmt.Sprintf("Careful: %q is a phishing email. %s", s.Subject, analysis)
	default:
		return fmt.Sprintf("Correct, %q is legitimate. %s", s.Subject, analysis)
	}
}

// queryReply answers a free-text question, using the viewed email as
// context when there is one.
func queryReply(query string, s *Sample) string {
	if s == nil {
		return fmt.Sprintf("You asked: %q. Phishing emails usually create urgency, "+
			"impersonate someone you trust and ask you to click a link or share credentials. "+
			"Open an email from the inbox and I can help you assess it.", query)
	}
	return fmt.Sprintf("You asked: %q. Looking at %q from %s: check whether the sender "+
		"address matches the organization it claims to be, and hover over links before clicking.",
		query, s.Subject, s.Sender)
}
