// Package stage is the catalog of pipeline actions: their descriptions,
// their canonical order and the artifact dependencies between them.
package stage

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is one named stage of the pipeline.
type Action string

const (
	Crawl    Action = "crawl"
	Study    Action = "study"
	Markdown Action = "markdown"
	HTML     Action = "html"
	Diff     Action = "diff"
	DiffNew  Action = "diffnew"
)

// All is the meta-action expanding to every action in canonical order.
const All = "all"

type entry struct {
	action      Action
	description string
	after       []Action
}

// catalog lists the actions in canonical order.
var catalog = []entry{
	{
		action:      Crawl,
		description: "crawl specs and generate a machine-readable report with facts about each spec",
	},
	{
		action: Study,
		description: "parse the machine-readable report generated by the crawler, and create a study report " +
			"of potential anomalies found in the report",
		after: []Action{Crawl},
	},
	{
		action:      Markdown,
		description: "produce a human-readable report in Markdown format out of the report returned by the study action",
		after:       []Action{Crawl},
	},
	{
		action:      HTML,
		description: "produce an HTML report out of the Markdown report generated by the markdown action",
		after:       []Action{Markdown},
	},
	{
		action:      Diff,
		description: "compare the crawl results with the latest published crawl results and generate diff report",
		after:       []Action{Crawl, Study},
	},
	{
		action: DiffNew,
		description: "compare the crawl results with the latest published crawl results and generate diff report " +
			"that only contains new anomalies",
		after: []Action{Crawl, Study},
	},
}

const allDescription = "crawl specs, study report and generate markdown, HTML and diff reports. Default action"

var (
	ordinals     = map[Action]int{}
	dependencies graph.Graph[string, Action]
)

func init() {
	for i, e := range catalog {
		ordinals[e.action] = i
	}

	g, err := buildGraph()
	if err != nil {
		panic(err)
	}
	dependencies = g
}

func actionHash(a Action) string {
	return string(a)
}

func buildGraph() (graph.Graph[string, Action], error) {
	g := graph.New(actionHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	for _, e := range catalog {
		err := g.AddVertex(e.action)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add action %s", e.action)
		}
	}

	for _, e := range catalog {
		for _, dep := range e.after {
			if ordinals[dep] >= ordinals[e.action] {
				return nil, errors.Errorf("%s must come before %s", dep, e.action)
			}
			err := g.AddEdge(string(dep), string(e.action))
			if err != nil {
				return nil, errors.Wrapf(err, "unable to link %s to %s", dep, e.action)
			}
		}
	}

	return g, nil
}

// Actions returns every action in canonical order.
func Actions() []Action {
	res := make([]Action, 0, len(catalog))
	for _, e := range catalog {
		res = append(res, e.action)
	}

	return res
}

// Parse validates an action name.
func Parse(name string) (Action, error) {
	a := Action(name)
	if _, ok := ordinals[a]; !ok {
		return "", errors.Wrap(ErrUnknownAction, name)
	}

	return a, nil
}

// Ordinal returns the position of the action in canonical order, -1 if unknown.
func (a Action) Ordinal() int {
	i, ok := ordinals[a]
	if !ok {
		return -1
	}

	return i
}

func (a Action) String() string {
	return string(a)
}

// Describe returns the description of an action or of the "all" meta-action.
func Describe(name string) (string, error) {
	if name == All {
		return allDescription, nil
	}
	a, err := Parse(name)
	if err != nil {
		return "", err
	}

	return catalog[ordinals[a]].description, nil
}

// Expand turns a requested action into the ordered list of actions to run.
// An empty name is the "all" meta-action.
func Expand(name string) ([]Action, error) {
	if name == "" || name == All {
		return Actions(), nil
	}
	a, err := Parse(name)
	if err != nil {
		return nil, err
	}

	return []Action{a}, nil
}

// Dependencies returns the actions whose artifacts a reads, in canonical order.
func Dependencies(a Action) ([]Action, error) {
	if _, ok := ordinals[a]; !ok {
		return nil, errors.Wrap(ErrUnknownAction, string(a))
	}

	predecessors, err := dependencies.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get predecessor map")
	}

	res := []Action{}
	for _, e := range catalog {
		if _, ok := predecessors[string(a)][string(e.action)]; ok {
			res = append(res, e.action)
		}
	}

	return res, nil
}
