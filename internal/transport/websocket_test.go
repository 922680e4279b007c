package transport

import "testing"

func TestWebsocketURL(t *testing.T) {
	cases := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8000", "/ws/chat", "ws://localhost:8000/ws/chat"},
		{"https://ultra.example.com", "/ws/chat", "wss://ultra.example.com/ws/chat"},
		{"http://localhost:8000/", "/ws/chat", "ws://localhost:8000/ws/chat"},
	}
	for _, tc := range cases {
		got, err := WebsocketURL(tc.base, tc.path)
		if err != nil {
			t.Fatalf("WebsocketURL(%q, %q) failed: %v", tc.base, tc.path, err)
		}
		if got != tc.want {
			t.Errorf("WebsocketURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
