package handler

import "strings"

// selfPrefix marks member access on the enclosing instance. Any call made
// through the instance is classified external regardless of the other
// rules; that broad catch-all is deliberate and load-bearing.
const selfPrefix = "this"

// externalServiceNames are well-known third-party systems matched as
// case-sensitive substrings of the call target.
var externalServiceNames = []string{
	"stripe",
	"twilio",
	"sendgrid",
	"firebase",
	"redis",
	"kafka",
	"s3",
}

// databaseIndicators and apiIndicators are matched against the lowercased
// call target.
var databaseIndicators = []string{
	"repository",
	"dao",
	"db",
	"database",
	"query",
	"transaction",
}

var apiIndicators = []string{
	"api",
	"client",
	"http",
	"request",
	"fetch",
}

// isExternalCall reports whether a call target reaches outside the
// handler's own logic.
func isExternalCall(target string) bool {
	for _, name := range externalServiceNames {
		if strings.Contains(target, name) {
			return true
		}
	}
	lower := strings.ToLower(target)
	for _, ind := range databaseIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	for _, ind := range apiIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return strings.HasPrefix(target, selfPrefix)
}

// callRule pairs a call kind with the target substrings that select it.
type callRule struct {
	kind       CallKind
	substrings []string
}

// callRules is evaluated in order; the first matching rule wins, so a
// target matching several patterns ("dbQueueClient") takes the earliest
// category. Matching is case-sensitive, which is why both "Queue" and
// "queue" appear.
var callRules = []callRule{
	{CallDatabase, []string{"db", "execute", "Repository", "repository", "Dao", "dao"}},
	{CallAPI, []string{"axios", "fetch", "http", "request"}},
	{CallQueue, []string{"Queue", "queue", "EventBus"}},
	{CallService, []string{"Service", "Client"}},
	{CallUtility, []string{"logger", "notifier.webhook"}},
}

// determineCallType maps a call target to its external-system category.
func determineCallType(target string) CallKind {
	for _, rule := range callRules {
		for _, sub := range rule.substrings {
			if strings.Contains(target, sub) {
				return rule.kind
			}
		}
	}
	return CallUnknown
}

// methodTypeRule pairs a behavioral category with the method-name
// prefixes that select it.
type methodTypeRule struct {
	category string
	prefixes []string
}

// methodTypeRules is evaluated in order; the first matching prefix wins.
var methodTypeRules = []methodTypeRule{
	{"processor", []string{"process"}},
	{"action", []string{"handle", "send"}},
	{"validator", []string{"validate"}},
	{"helper", []string{"get", "check"}},
}
