package assistant

import "strings"

// Keyword lists are checked in this order; the first topic with a match wins.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicExpiry, []string{"expir", "shelf life", "best before", "going bad"}},
	{TopicStock, []string{"stock", "inventory", "quantity", "available", "supply"}},
	{TopicSales, []string{"sale", "revenue", "profit", "income", "earning", "transaction", "money"}},
	{TopicRecommendations, []string{"recommend", "suggest", "advice", "what should", "help me"}},
}

// Classify returns the topic a prompt asks about, or false if none matches.
func Classify(prompt string) (Topic, bool) {
	p := strings.ToLower(prompt)
	for _, t := range topicKeywords {
		if containsAny(p, t.keywords...) {
			return t.topic, true
		}
	}
	return "", false
}

// AgentFor picks the persona that answers prompt. Recommendation prompts go
// to the master agent.
func AgentFor(prompt string) Sender {
	p := strings.ToLower(prompt)
	switch {
	case containsAny(p, "stock", "inventory"):
		return SenderStock
	case containsAny(p, "expir"):
		return SenderExpiry
	case containsAny(p, "sale", "revenue"):
		return SenderSales
	default:
		return SenderMaster
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
