package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pushfold/poker"
)

type node = orderedmap.OrderedMap[string, json.RawMessage]

// Diff compares the key structure of a profile against a template table and
// returns one message per difference: missing or extra players, depths,
// positions and scenarios, missing villains, and hand-map scenarios that are
// not objects. Values are not compared.
func Diff(template, profile []byte) ([]string, error) {
	tmpl, err := parseNode(template)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	prof, err := parseNode(profile)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	var issues []string
	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	for tp := tmpl.Oldest(); tp != nil; tp = tp.Next() {
		players := tp.Key
		profRaw, ok := prof.Get(players)
		if !ok {
			report("Missing players key: %s", players)
			continue
		}
		tmplPlayers, profPlayers := child(tp.Value), child(profRaw)

		for td := tmplPlayers.Oldest(); td != nil; td = td.Next() {
			depth := td.Key
			profRaw, ok := profPlayers.Get(depth)
			if !ok {
				report("Missing depth %s under players %s", depth, players)
				continue
			}
			tmplDepth, profDepth := child(td.Value), child(profRaw)

			for tpos := tmplDepth.Oldest(); tpos != nil; tpos = tpos.Next() {
				pos := tpos.Key
				profRaw, ok := profDepth.Get(pos)
				if !ok {
					report("Missing position %s under players %s/%s", pos, players, depth)
					continue
				}
				tmplPos, profPos := child(tpos.Value), child(profRaw)
				at := players + "/" + depth + "/" + pos

				for tsc := tmplPos.Oldest(); tsc != nil; tsc = tsc.Next() {
					scenario := tsc.Key
					profRaw, ok := profPos.Get(scenario)
					if !ok {
						report("Missing scenario %s under %s", scenario, at)
						continue
					}
					villains := villainKeys(child(tsc.Value))
					if len(villains) == 0 {
						if !isObject(profRaw) {
							report("Scenario %s at %s should be an object (hand->value mapping)", scenario, at)
						}
						continue
					}
					profSc := child(profRaw)
					for _, v := range villains {
						if _, ok := profSc.Get(v); !ok {
							report("Missing villain %s under scenario %s at %s", v, scenario, at)
						}
					}
				}
				for psc := profPos.Oldest(); psc != nil; psc = psc.Next() {
					if _, ok := tmplPos.Get(psc.Key); !ok {
						report("Extra scenario %s present in profile under %s", psc.Key, at)
					}
				}
			}
			for ppos := profDepth.Oldest(); ppos != nil; ppos = ppos.Next() {
				if _, ok := tmplDepth.Get(ppos.Key); !ok {
					report("Extra position %s present under %s/%s", ppos.Key, players, depth)
				}
			}
		}
		for pd := profPlayers.Oldest(); pd != nil; pd = pd.Next() {
			if _, ok := tmplPlayers.Get(pd.Key); !ok {
				report("Extra depth %s present under players %s", pd.Key, players)
			}
		}
	}
	for pp := prof.Oldest(); pp != nil; pp = pp.Next() {
		if _, ok := tmpl.Get(pp.Key); !ok {
			report("Extra players key %s present in profile", pp.Key)
		}
	}
	return issues, nil
}

func parseNode(data []byte) (*node, error) {
	if !isObject(data) {
		return nil, fmt.Errorf("document must be a JSON object")
	}
	n := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(bytes.TrimSpace(data), n); err != nil {
		return nil, err
	}
	return n, nil
}

// child decodes raw as an object; anything else is treated as empty.
func child(raw json.RawMessage) *node {
	n, err := parseNode(raw)
	if err != nil {
		return orderedmap.New[string, json.RawMessage]()
	}
	return n
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func villainKeys(sc *node) []string {
	var keys []string
	for p := sc.Oldest(); p != nil; p = p.Next() {
		if poker.IsSeatName(p.Key) {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// Report is the result of checking one profile against a template.
type Report struct {
	Name   string
	Issues []string
	// Err is set when the profile could not be read or parsed.
	Err error
}

// OK reports whether the profile matched the template.
func (r Report) OK() bool {
	return r.Err == nil && len(r.Issues) == 0
}

// ValidateAll diffs every profile in the store against template, in list
// order. Profiles are checked concurrently.
func (s *Store) ValidateAll(ctx context.Context, template []byte) ([]Report, error) {
	if _, err := parseNode(template); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = s.validate(name, template)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Store) validate(name string, template []byte) Report {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return Report{Name: name, Err: err}
	}
	issues, err := Diff(template, data)
	if err != nil {
		return Report{Name: name, Err: err}
	}
	return Report{Name: name, Issues: issues}
}
