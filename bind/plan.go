package bind

import (
	"reflect"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/storacha/go-dynval/failure"
)

// A structPlan is the per-type field layout used by both walkers. Plans
// are immutable once built and cached, reflection over struct tags only
// happens once per type.
type structPlan struct {
	fields []fieldPlan
	byName map[string]int
}

type fieldPlan struct {
	name      string
	index     int
	omitEmpty bool
	// optional fields may be absent from a decoded object without
	// raising a MissingError.
	optional bool
}

var planCache *lru.Cache[reflect.Type, *structPlan]

func init() {
	planCache, _ = lru.New[reflect.Type, *structPlan](512)
}

func planFor(t reflect.Type) (*structPlan, error) {
	if p, ok := planCache.Get(t); ok {
		return p, nil
	}
	p := &structPlan{byName: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		omitEmpty := false
		if tag, ok := f.Tag.Lookup("dynval"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" && len(parts) == 1 {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}
		if _, dup := p.byName[name]; dup {
			return nil, failure.NewDuplicated(name)
		}
		p.byName[name] = len(p.fields)
		p.fields = append(p.fields, fieldPlan{
			name:      name,
			index:     i,
			omitEmpty: omitEmpty,
			optional:  omitEmpty || f.Type.Kind() == reflect.Pointer,
		})
	}
	planCache.Add(t, p)
	return p, nil
}
