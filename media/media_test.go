package media

import "testing"

func TestFileType(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", "image"},
		{"image/png", "image"},
		{"video/mp4", "video"},
		{"video/webm", "video"},
		{"application/octet-stream", "image"},
		{"", "image"},
	}
	for _, c := range cases {
		if got := FileType(c.contentType); got != c.want {
			t.Errorf("FileType(%q) = %q, want %q", c.contentType, got, c.want)
		}
	}
}
