package report

import (
	"text/template"

	"github.com/askiada/go-reffy/internal/study"
)

type issueGroup struct {
	Type  study.AnomalyType
	Specs []issueEntry
}

type issueEntry struct {
	Spec    study.SpecResult
	Message string
}

type perIssueView struct {
	Date   string
	Stats  study.Stats
	Groups []issueGroup
}

func groupByIssue(res *study.Result) perIssueView {
	view := perIssueView{Date: res.Date, Stats: res.Stats}
	for _, typ := range study.AnomalyTypes() {
		group := issueGroup{Type: typ}
		for _, spec := range res.Results {
			for _, anomaly := range spec.Anomalies {
				if anomaly.Type == typ {
					group.Specs = append(group.Specs, issueEntry{Spec: spec, Message: anomaly.Message})
				}
			}
		}
		if len(group.Specs) > 0 {
			view.Groups = append(view.Groups, group)
		}
	}

	return view
}

type specChange struct {
	Spec      study.SpecResult
	Anomalies []study.Anomaly
}

type diffView struct {
	Baseline string
	OnlyNew  bool
	Added    []specChange
	Resolved []specChange
}

func anomalySet(anomalies []study.Anomaly) map[study.Anomaly]struct{} {
	set := make(map[study.Anomaly]struct{}, len(anomalies))
	for _, a := range anomalies {
		set[a] = struct{}{}
	}

	return set
}

// missing returns the anomalies of from that are not in other, keeping from's order.
func missing(from []study.Anomaly, other map[study.Anomaly]struct{}) []study.Anomaly {
	res := []study.Anomaly{}
	for _, a := range from {
		if _, ok := other[a]; !ok {
			res = append(res, a)
		}
	}

	return res
}

// compare matches specifications by URL. Added changes follow the current
// crawl order, resolved ones the baseline order.
func compare(current, baseline *study.Result, opts Options) diffView {
	view := diffView{Baseline: opts.RefBaseline, OnlyNew: opts.OnlyNew}

	before := make(map[string]study.SpecResult, len(baseline.Results))
	for _, spec := range baseline.Results {
		before[spec.URL] = spec
	}
	after := make(map[string]study.SpecResult, len(current.Results))
	for _, spec := range current.Results {
		after[spec.URL] = spec
	}

	for _, spec := range current.Results {
		added := missing(spec.Anomalies, anomalySet(before[spec.URL].Anomalies))
		if len(added) > 0 {
			view.Added = append(view.Added, specChange{Spec: spec, Anomalies: added})
		}
	}

	if opts.OnlyNew {
		return view
	}

	for _, spec := range baseline.Results {
		now, ok := after[spec.URL]
		if !ok {
			continue
		}
		resolved := missing(spec.Anomalies, anomalySet(now.Anomalies))
		if len(resolved) > 0 {
			view.Resolved = append(view.Resolved, specChange{Spec: now, Anomalies: resolved})
		}
	}

	return view
}

var perSpecTemplate = template.Must(template.New("per-spec").Parse(`# Reffy crawl results

Crawled on {{.Date}}: {{.Stats.Crawled}} specification(s), {{.Stats.WithAnomalies}} with anomalies.
{{range .Results}}
## {{.Title}}

- Shortname: ` + "`{{.Shortname}}`" + `
- URL: <{{.URL}}>
{{if .Anomalies}}{{range .Anomalies}}- {{.Type.Title}}: {{.Message}}
{{end}}{{else}}- No anomaly found.
{{end}}{{end}}`))

var perIssueTemplate = template.Must(template.New("per-issue").Parse(`# Reffy crawl results, by anomaly

Crawled on {{.Date}}: {{.Stats.Crawled}} specification(s), {{.Stats.WithAnomalies}} with anomalies.
{{range .Groups}}
## {{.Type.Title}} ({{len .Specs}})

{{range .Specs}}- [{{.Spec.Title}}]({{.Spec.URL}}): {{.Message}}
{{end}}{{else}}
No anomaly found.
{{end}}`))

var diffTemplate = template.Must(template.New("diff").Parse(`# Reffy diff report

Compared with <{{.Baseline}}>.

## New anomalies
{{range .Added}}
### [{{.Spec.Title}}]({{.Spec.URL}})

{{range .Anomalies}}- {{.Type.Title}}: {{.Message}}
{{end}}{{else}}
No new anomaly found.
{{end}}{{if not .OnlyNew}}
## Resolved anomalies
{{range .Resolved}}
### [{{.Spec.Title}}]({{.Spec.URL}})

{{range .Anomalies}}- {{.Type.Title}}: {{.Message}}
{{end}}{{else}}
No resolved anomaly.
{{end}}{{end}}`))
