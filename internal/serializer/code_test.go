package serializer

import "testing"

func TestFenceLength(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		min     int
		want    int
	}{
		{"empty uses minimum", "", 4, 4},
		{"plain content uses minimum", "x := 1\n", 4, 4},
		{"five tildes force six", "~~~~~\n", 4, 6},
		{"five tildes beat smaller minimum", "~~~~~\n", 2, 6},
		{"indented run still counts", "  ~~~~\n", 4, 5},
		{"mid-line run ignored", "a ~~~~ b\n", 4, 4},
		{"longest run wins", "~~\ncode\n~~~~~~\n", 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fenceLength(tt.literal, '~', tt.min); got != tt.want {
				t.Fatalf("fenceLength(%q, '~', %d)=%d want %d", tt.literal, tt.min, got, tt.want)
			}
		})
	}
}

func TestFenceLengthBacktick(t *testing.T) {
	if got := fenceLength("```\n", '`', 4); got != 4 {
		t.Fatalf("fenceLength=%d want 4", got)
	}
	if got := fenceLength("````\n", '`', 4); got != 5 {
		t.Fatalf("fenceLength=%d want 5", got)
	}
}
