package keyword

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical title", "Avatar", "Avatar", 0},
		{"identical unicode", "Amélie", "Amélie", 0},

		{"empty a", "", "Heat", 4},
		{"empty b", "Heat", "", 4},

		{"one substitution", "Heat", "Beat", 1},
		{"one insertion", "Alien", "Aliens", 1},
		{"one deletion", "Avatar", "Avtar", 1},
		{"kitten to sitting", "kitten", "sitting", 3},

		{"transposition", "Titanic", "Titnaic", 1},
		{"transposition ab-ba", "ab", "ba", 1},
		{"ca to abc", "ca", "abc", 3},

		{"case difference", "avatar", "Avatar", 1},
		{"unicode substitution", "Amélie", "Amelie", 1},

		{"longer titles", "The Dark Knight", "The Dark Knight Rises", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			if rev := Distance(tt.b, tt.a); rev != got {
				t.Errorf("Distance not symmetric: %d vs %d", got, rev)
			}
		})
	}
}

func BenchmarkDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Distance("Pirates of the Caribbean: At World's End", "Pirates of the Carribean: At Worlds End")
	}
}
