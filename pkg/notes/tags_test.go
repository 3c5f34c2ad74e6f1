package notes

import (
	"reflect"
	"testing"
)

func TestSetTagsClosedVocabulary(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "valid tags survive in order",
			tags: []string{"cold", "promised"},
			want: []string{"cold", "promised"},
		},
		{
			name: "unknown tags dropped",
			tags: []string{"promised", "vip", "hot-lead"},
			want: []string{"promised"},
		},
		{
			name: "duplicates collapse",
			tags: []string{"no-show", "no-show", "cold"},
			want: []string{"no-show", "cold"},
		},
		{
			name: "hash prefix tolerated",
			tags: []string{"#warm-response"},
			want: []string{"warm-response"},
		},
		{
			name: "all invalid yields no tags line",
			tags: []string{"nope", ""},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTags(SetTags("", tt.tags))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetTags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddRemoveHasTag(t *testing.T) {
	raw := "=== EMAIL CORRESPONDENCE ===\n04-12-25 10:30 AM - Guy - hello\n"

	raw = AddTag(raw, "promised")
	if !HasTag(raw, "promised") {
		t.Fatal("tag not added")
	}

	// Unknown tag is a no-op.
	if got := AddTag(raw, "vip"); got != raw {
		t.Error("unknown tag changed the document")
	}
	// Duplicate add is a no-op.
	if got := AddTag(raw, "promised"); got != raw {
		t.Error("duplicate add changed the document")
	}

	raw = AddTag(raw, "agreed-to-meet")
	if got := GetTags(raw); !reflect.DeepEqual(got, []string{"promised", "agreed-to-meet"}) {
		t.Errorf("insertion order lost: %v", got)
	}

	raw = RemoveTag(raw, "promised")
	if HasTag(raw, "promised") {
		t.Error("tag not removed")
	}
	if got := GetSection(raw, SectionEmail); got != "04-12-25 10:30 AM - Guy - hello" {
		t.Errorf("tag ops touched section body: %q", got)
	}
}
