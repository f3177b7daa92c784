package datagrid_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
)

func TestDiffOfProjectionIsEmpty(t *testing.T) {
	for _, entity := range sampleAssets() {
		if changes := datagrid.Diff(projectAsset(entity), projectAsset(entity)); len(changes) != 0 {
			t.Fatalf("expected no changes for %s, got %v", entity.ID, changes)
		}
	}
}

func TestDiffReportsSingleChangedField(t *testing.T) {
	entity := sampleAssets()[0]
	cases := map[string]any{
		"name":        "Renamed",
		"lang":        "RU",
		"isActive":    false,
		"originalUrl": "https://example.com/a.pdf",
	}
	for key, value := range cases {
		draft := projectAsset(entity)
		draft[key] = value

		changes := datagrid.Diff(projectAsset(entity), draft)
		want := datagrid.Form{key: value}
		if !reflect.DeepEqual(changes, want) {
			t.Fatalf("field %s: expected %v, got %v", key, want, changes)
		}
	}
}

func TestDiffComparesTrimmedStrings(t *testing.T) {
	base := datagrid.Form{"name": "A", "lang": "EN"}
	draft := datagrid.Form{"name": "  A ", "lang": "EN"}

	if changes := datagrid.Diff(base, draft); len(changes) != 0 {
		t.Fatalf("expected whitespace-only edits ignored, got %v", changes)
	}
}

func TestDiffTreatsMissingAsEmptyString(t *testing.T) {
	base := datagrid.Form{"name": "A"}
	draft := datagrid.Form{"name": "A", "description": ""}

	if changes := datagrid.Diff(base, draft); len(changes) != 0 {
		t.Fatalf("expected empty new field ignored, got %v", changes)
	}
}

func TestDiffSkipsExcludedFields(t *testing.T) {
	base := datagrid.Form{"name": "A"}
	draft := datagrid.Form{"name": "B", "uploadMethod": "file", "file": "handle"}

	changes := datagrid.Diff(base, draft, "uploadMethod", "file")
	if !reflect.DeepEqual(changes, datagrid.Form{"name": "B"}) {
		t.Fatalf("expected only name, got %v", changes)
	}
}

func TestStripCopiesForm(t *testing.T) {
	form := datagrid.Form{"name": "A", "uploadMethod": "url"}

	stripped := datagrid.Strip(form, "uploadMethod")
	if _, ok := stripped["uploadMethod"]; ok {
		t.Fatalf("expected uploadMethod stripped")
	}
	if _, ok := form["uploadMethod"]; !ok {
		t.Fatalf("expected source form untouched")
	}
}

func TestFormCoerceFollowsCurrentType(t *testing.T) {
	form := datagrid.Form{"isActive": true, "duration": 30, "name": "clip"}

	if got := form.Coerce("isActive", " false "); got != false {
		t.Fatalf("expected bool false, got %#v", got)
	}
	if got := form.Coerce("duration", "45"); got != 45 {
		t.Fatalf("expected int 45, got %#v", got)
	}
	if got := form.Coerce("name", " intro "); got != " intro " {
		t.Fatalf("expected raw text, got %#v", got)
	}
	if got := form.Coerce("isActive", "maybe"); got != "maybe" {
		t.Fatalf("expected unparsable input kept as text, got %#v", got)
	}
	if diff := datagrid.Diff(datagrid.Form{"isActive": true}, datagrid.Form{"isActive": form.Coerce("isActive", "true")}); len(diff) != 0 {
		t.Fatalf("expected coerced value to diff equal, got %+v", diff)
	}
}
