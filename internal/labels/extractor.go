// Package labels extracts short, searchable keyword labels from ticket
// content, for example "fedex", "crdb", "ovc".
package labels

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxLabels caps the label list for a single ticket.
const DefaultMaxLabels = 5

// technicalKeywords lists the labels worth surfacing for filtering. Kept
// deliberately specific; generic terms live in excludedKeywords instead.
var technicalKeywords = map[string]struct{}{
	"crdb": {}, "active-active": {}, "aa": {}, "sentinel": {}, "proxy": {}, "dmcproxy": {},

	"ovc": {}, "vector-clock": {},

	"acre": {}, "azure": {}, "aws": {}, "gcp": {}, "kubernetes": {}, "k8s": {},
	"rlec": {},

	"crash": {}, "timeout": {}, "acl": {}, "rbac": {},
	"ssl": {}, "tls": {}, "certificate": {},

	"upgrade": {}, "migration": {}, "failover": {},

	"modules": {}, "lua": {}, "rdb": {}, "aof": {},
	"streams": {}, "pubsub": {}, "search": {}, "json": {}, "timeseries": {}, "graph": {}, "bloom": {},
}

// excludedKeywords are too common to be useful filters and are never emitted
// even if a caller adds them to the technical set.
var excludedKeywords = map[string]struct{}{
	"redis": {}, "cluster": {}, "database": {}, "shard": {}, "replica": {}, "slave": {}, "master": {},
	"replication": {}, "sync": {}, "synchronization": {}, "conflict": {}, "resolution": {}, "merge": {},
	"memory": {}, "cpu": {}, "disk": {}, "network": {}, "latency": {}, "performance": {},
	"connection": {}, "authentication": {}, "auth": {}, "encryption": {}, "cloud": {}, "enterprise": {},
	"backup": {}, "restore": {}, "recovery": {}, "restart": {}, "deployment": {}, "scaling": {}, "sharding": {},
	"scripts": {}, "persistence": {},
}

// customerPattern matches summaries shaped "Customer Name - issue text".
var customerPattern = regexp.MustCompile(`^([A-Za-z0-9]+(?:\s+[A-Za-z0-9]+)?)\s*-`)

var wordPatterns = compileWordPatterns()

func compileWordPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(technicalKeywords))
	for kw := range technicalKeywords {
		out[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return out
}

// Request carries the inputs for one extraction. Source is normally empty
// for internal tickets; when set it becomes the highest-priority label.
type Request struct {
	Summary      string
	Description  string
	CustomerName string
	Source       string
	MaxLabels    int
}

// Extract returns keyword labels for a ticket: source first, customer
// second, then technical keywords alphabetically, capped at MaxLabels.
func Extract(req Request) []string {
	max := req.MaxLabels
	if max <= 0 {
		max = DefaultMaxLabels
	}

	seen := make(map[string]struct{})
	var priority []string

	if src := strings.ToLower(strings.TrimSpace(req.Source)); src != "" {
		priority = append(priority, src)
		seen[src] = struct{}{}
	}
	if customer := extractCustomer(req.Summary, req.CustomerName); customer != "" {
		if _, dup := seen[customer]; !dup {
			priority = append(priority, customer)
			seen[customer] = struct{}{}
		}
	}

	var technical []string
	addKeywords := func(text string) {
		for _, kw := range technicalKeywordsIn(text) {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			technical = append(technical, kw)
		}
	}
	addKeywords(req.Summary)
	if len(priority)+len(technical) < max {
		addKeywords(req.Description)
	}

	sort.Strings(technical)
	out := append(priority, technical...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

func extractCustomer(summary, customerName string) string {
	if name := strings.TrimSpace(customerName); name != "" {
		return strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	m := customerPattern.FindStringSubmatch(summary)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(m[1])), " ", "-")
}

func technicalKeywordsIn(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for kw, pat := range wordPatterns {
		if _, excluded := excludedKeywords[kw]; excluded {
			continue
		}
		if pat.MatchString(lower) {
			found = append(found, kw)
		}
	}
	sort.Strings(found)
	return found
}
