package bet

import "testing"

func TestEntry_Less(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Entry
		want bool
	}{
		{"higher stake first", Entry{1, 500}, Entry{2, 100}, true},
		{"lower stake last", Entry{1, 100}, Entry{2, 500}, false},
		{"tie breaks by customer asc", Entry{1, 300}, Entry{2, 300}, true},
		{"tie reversed", Entry{9, 300}, Entry{2, 300}, false},
		{"identical is not less", Entry{1, 300}, Entry{1, 300}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	t.Parallel()

	if got := EncodeCSV(nil); got != "" {
		t.Errorf("EncodeCSV(nil) = %q, want empty", got)
	}

	got := EncodeCSV([]Entry{{1001, 500}, {1002, 300}})
	want := "1001=500,1002=300"
	if got != want {
		t.Errorf("EncodeCSV = %q, want %q", got, want)
	}

	if got := EncodeCSV([]Entry{{7, 0}}); got != "7=0" {
		t.Errorf("EncodeCSV single = %q, want %q", got, "7=0")
	}
}
