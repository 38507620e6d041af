package channel

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		c    Channel
		want bool
	}{
		{"google is valid", Google, true},
		{"linkedin is valid", Linkedin, true},
		{"unknown channel is invalid", Channel("bing"), false},
		{"empty channel is invalid", Channel(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.c); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestNewMap_Complete(t *testing.T) {
	m := NewMap(func(c Channel) int { return len(c) })
	if !m.Complete() {
		t.Fatalf("map built by NewMap is not Complete(): %+v", m)
	}
	if len(m) != len(All) {
		t.Errorf("len(m) = %d, want %d", len(m), len(All))
	}
}

func TestMap_Complete_DetectsMissingChannel(t *testing.T) {
	m := NewMap(func(c Channel) int { return 0 })
	delete(m, Tiktok)
	if m.Complete() {
		t.Error("Complete() = true after deleting a channel, want false")
	}
}

func TestKeys_FixedOrder(t *testing.T) {
	m := NewMap(func(c Channel) bool { return true })
	keys := Keys(m)
	if len(keys) != len(All) {
		t.Fatalf("len(Keys(m)) = %d, want %d", len(keys), len(All))
	}
	for i, c := range All {
		if keys[i] != c {
			t.Errorf("Keys()[%d] = %v, want %v", i, keys[i], c)
		}
	}
}

func TestSortedStrings(t *testing.T) {
	got := SortedStrings([]Channel{Tiktok, Google, Linkedin, Meta})
	want := []string{"google", "linkedin", "meta", "tiktok"}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedStrings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
