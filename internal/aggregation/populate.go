package aggregation

import "strings"

// Reference describes how an alias on one collection joins another.
type Reference struct {
	LocalField   string
	From         string
	ForeignField string
}

// References maps a collection to the aliases that can be populated on its
// rows.
type References map[string]map[string]Reference

// PopulateSpec is one populate instruction. Populate nests the next path
// component, if any.
type PopulateSpec struct {
	Path     string
	Populate *PopulateSpec
}

// ParsePopulate splits "a.b,c" into nested specs {a {b}} and {c}.
func ParsePopulate(populate string) []PopulateSpec {
	var specs []PopulateSpec
	for _, part := range strings.Split(populate, ",") {
		var segs []string
		for _, s := range strings.Split(strings.TrimSpace(part), ".") {
			if s = strings.TrimSpace(s); s != "" {
				segs = append(segs, s)
			}
		}
		if len(segs) == 0 {
			continue
		}
		var spec *PopulateSpec
		for i := len(segs) - 1; i >= 0; i-- {
			spec = &PopulateSpec{Path: segs[i], Populate: spec}
		}
		specs = append(specs, *spec)
	}
	return specs
}

func (p *Paginator) populateStages(collection, populate string) Pipeline {
	var out Pipeline
	for _, spec := range ParsePopulate(populate) {
		out = append(out, p.expand(collection, spec, "")...)
	}
	return out
}

func (p *Paginator) expand(collection string, spec PopulateSpec, prefix string) Pipeline {
	ref, ok := p.refs[collection][spec.Path]
	if !ok {
		p.log.Debugf("Ignoring unknown populate path %q on %s", prefix+spec.Path, collection)
		return nil
	}
	as := prefix + spec.Path
	stages := Pipeline{
		Lookup{From: ref.From, LocalField: prefix + ref.LocalField, ForeignField: ref.ForeignField, As: as},
		Unwind{Path: as, PreserveNullAndEmptyArrays: true},
	}
	if spec.Populate != nil {
		stages = append(stages, p.expand(ref.From, *spec.Populate, as+".")...)
	}
	return stages
}
