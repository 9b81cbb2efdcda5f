package catalog

import (
	"testing"
)

func TestDefinitionsAreWellFormed(t *testing.T) {
	defs := All()
	if len(defs) == 0 {
		t.Fatal("empty catalog")
	}

	routes := make(map[string]string)
	collections := make(map[string]string)
	prefixes := make(map[string]string)

	for _, def := range defs {
		if def.Name == "" || def.Label == "" || def.Plural == "" || def.Route == "" || def.Collection == "" || def.IDPrefix == "" {
			t.Errorf("%s: incomplete definition: %+v", def.Name, def)
		}
		if prev, dup := routes[def.Route]; dup {
			t.Errorf("route %q shared by %s and %s", def.Route, prev, def.Name)
		}
		routes[def.Route] = def.Name
		if prev, dup := collections[def.Collection]; dup {
			t.Errorf("collection %q shared by %s and %s", def.Collection, prev, def.Name)
		}
		collections[def.Collection] = def.Name
		if prev, dup := prefixes[def.IDPrefix]; dup {
			t.Errorf("id prefix %q shared by %s and %s", def.IDPrefix, prev, def.Name)
		}
		prefixes[def.IDPrefix] = def.Name

		if len(def.Schema.Fields) == 0 {
			t.Errorf("%s: schema has no fields", def.Name)
		}
		if def.UniqueField != "" && !declares(def, def.UniqueField) {
			t.Errorf("%s: unique field %q not declared in schema", def.Name, def.UniqueField)
		}
		if def.FilterField != "" && !declares(def, def.FilterField) {
			t.Errorf("%s: filter field %q not declared in schema", def.Name, def.FilterField)
		}
	}
}

func TestByRoute(t *testing.T) {
	for _, def := range All() {
		found, ok := ByRoute(def.Route)
		if !ok || found.Name != def.Name {
			t.Errorf("ByRoute(%q) = %v, %v", def.Route, found.Name, ok)
		}
	}
	if _, ok := ByRoute("no-such-resource"); ok {
		t.Error("ByRoute matched an unknown route")
	}
}

func declares(def Definition, field string) bool {
	for _, f := range def.Schema.Fields {
		if f.Name == field {
			return true
		}
	}
	return false
}
