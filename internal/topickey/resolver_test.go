package topickey

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "production drops trailing segment",
			url:  "https://example.com/javascript/closures/practice",
			want: "javascript-closures",
		},
		{
			name: "production single segment kept",
			url:  "https://example.com/javascript",
			want: "javascript",
		},
		{
			name: "localhost keeps every segment",
			url:  "http://localhost:3000/javascript/closures",
			want: "javascript-closures",
		},
		{
			name: "loopback ip keeps every segment",
			url:  "http://127.0.0.1:8080/go/slices",
			want: "go-slices",
		},
		{
			name: "trailing slash ignored",
			url:  "https://example.com/javascript/closures/",
			want: "javascript",
		},
		{
			name: "doubled slashes ignored",
			url:  "https://example.com//javascript//closures//practice",
			want: "javascript-closures",
		},
		{
			name: "query and fragment ignored",
			url:  "https://example.com/css/grid/quiz?tab=1#top",
			want: "css-grid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resolver
			got, err := r.Resolve(tt.url)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveEmptyPath(t *testing.T) {
	var r Resolver
	for _, u := range []string{"https://example.com", "https://example.com/", "http://localhost:3000"} {
		if _, err := r.Resolve(u); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("Resolve(%q) error = %v, want ErrEmptyPath", u, err)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	var r Resolver
	const u = "https://example.com/javascript/closures/practice"

	first, err := r.Resolve(u)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := r.Resolve(u)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if got != first {
			t.Fatalf("Resolve not deterministic: %q then %q", first, got)
		}
	}
}

func TestResolveConfiguredLocalHost(t *testing.T) {
	r := Resolver{LocalHosts: []string{"dev.internal"}}

	got, err := r.Resolve("http://dev.internal:4000/javascript/closures")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "javascript-closures" {
		t.Errorf("Resolve = %q, want %q", got, "javascript-closures")
	}

	// The same path on a production host drops the trailing segment.
	got, err = r.Resolve("https://example.com/javascript/closures")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "javascript" {
		t.Errorf("Resolve = %q, want %q", got, "javascript")
	}
}

func TestResolveBadURL(t *testing.T) {
	var r Resolver
	if _, err := r.Resolve("http://exa mple.com/a/b"); err == nil {
		t.Error("Resolve accepted an unparseable URL")
	}
}
