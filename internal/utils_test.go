package internal

import (
	"testing"
)

func TestIsSupportedURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=tAP1eZYEuKA", true},
		{"https://youtube.com/watch?v=tAP1eZYEuKA", true},
		{"https://youtu.be/tAP1eZYEuKA", true},
		{"https://www.youtube.com/shorts/abc123XYZ_-", true},
		{"https://m.youtube.com/watch?v=tAP1eZYEuKA", true},
		{"https://www.youtube.com/embed/tAP1eZYEuKA", true},
		{"https://www.bilibili.com/video/BV1xx411c7mD", true},
		{"https://bilibili.com/video/BV1xx411c7mD", true},
		{"https://www.bilibili.com/bangumi/play/ep123456", true},
		{"https://www.bilibili.com/cheese/play/ep1234", true},
		{"  https://youtu.be/tAP1eZYEuKA  ", true},
		{"https://example.com/watch?v=tAP1eZYEuKA", false},
		{"https://vimeo.com/12345", false},
		{"https://www.youtube.com/", false},
		{"not a url", false},
		{"", false},
	}

	for _, test := range tests {
		result := IsSupportedURL(test.url)
		if result != test.expected {
			t.Errorf("IsSupportedURL(%q) = %v, expected %v", test.url, result, test.expected)
		}
	}
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "bilibili tracking params removed",
			url:      "https://www.bilibili.com/video/BV1xx411c7mD?spm_id_from=333.999&vd_source=abc",
			expected: "https://www.bilibili.com/video/BV1xx411c7mD",
		},
		{
			name:     "bilibili part selection kept",
			url:      "https://www.bilibili.com/video/BV1xx411c7mD?p=3&spm_id_from=333.999",
			expected: "https://www.bilibili.com/video/BV1xx411c7mD?p=3",
		},
		{
			name:     "youtube feature param removed",
			url:      "https://www.youtube.com/watch?v=tAP1eZYEuKA&feature=share",
			expected: "https://www.youtube.com/watch?v=tAP1eZYEuKA",
		},
		{
			name:     "youtube timestamp kept",
			url:      "https://www.youtube.com/watch?v=tAP1eZYEuKA&t=42&utm_source=app",
			expected: "https://www.youtube.com/watch?t=42&v=tAP1eZYEuKA",
		},
		{
			name:     "unknown host untouched",
			url:      "https://example.com/page?utm_source=app",
			expected: "https://example.com/page?utm_source=app",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := CleanURL(test.url)
			if result != test.expected {
				t.Errorf("CleanURL(%q) = %q, expected %q", test.url, result, test.expected)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "My Video Title", "My Video Title"},
		{"slashes replaced", "a/b\\c", "a_b_c"},
		{"special chars replaced", `a<b>c:d"e|f?g*h`, "a_b_c_d_e_f_g_h"},
		{"newlines and tabs replaced", "line1\nline2\tend", "line1_line2_end"},
		{"unicode preserved", "视频标题 第1集", "视频标题 第1集"},
		{"empty falls back", "", "download"},
		{"whitespace only falls back", "   ", "download"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := SanitizeFilename(test.input)
			if result != test.expected {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", test.input, result, test.expected)
			}
		})
	}
}

func TestValidateChatModel(t *testing.T) {
	tests := []struct {
		model   string
		wantErr bool
	}{
		{"deepseek-chat", false},
		{"deepseek-reasoner", false},
		{"gpt-4o", true},
		{"", true},
	}

	for _, test := range tests {
		err := ValidateChatModel(test.model)
		if (err != nil) != test.wantErr {
			t.Errorf("ValidateChatModel(%q) error = %v, wantErr %v", test.model, err, test.wantErr)
		}
	}
}

func TestValidateChatAPIKey(t *testing.T) {
	if err := ValidateChatAPIKey(""); err == nil {
		t.Error("ValidateChatAPIKey(\"\") expected error, got nil")
	}
	if err := ValidateChatAPIKey("sk-test"); err != nil {
		t.Errorf("ValidateChatAPIKey(\"sk-test\") unexpected error: %v", err)
	}
}

func TestPickAudioFile(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
		wantErr  bool
	}{
		{
			name:     "prefers mp3",
			files:    []string{"/tmp/a/video.webm", "/tmp/a/video.mp3"},
			expected: "/tmp/a/video.mp3",
		},
		{
			name:     "case insensitive extension",
			files:    []string{"/tmp/a/video.MP3"},
			expected: "/tmp/a/video.MP3",
		},
		{
			name:     "falls back to first file",
			files:    []string{"/tmp/a/video.m4a", "/tmp/a/video.webm"},
			expected: "/tmp/a/video.m4a",
		},
		{
			name:    "empty list errors",
			files:   nil,
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := PickAudioFile(test.files)
			if (err != nil) != test.wantErr {
				t.Fatalf("PickAudioFile() error = %v, wantErr %v", err, test.wantErr)
			}
			if result != test.expected {
				t.Errorf("PickAudioFile() = %q, expected %q", result, test.expected)
			}
		})
	}
}

func TestListAudioFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
		wantErr  bool
	}{
		{
			name:     "multi-part download keeps every mp3 in part order",
			files:    []string{"/tmp/a/title p3.mp3", "/tmp/a/title p1.mp3", "/tmp/a/title p2.mp3"},
			expected: []string{"/tmp/a/title p1.mp3", "/tmp/a/title p2.mp3", "/tmp/a/title p3.mp3"},
		},
		{
			name:     "non-audio files excluded when mp3s exist",
			files:    []string{"/tmp/a/video.mp3", "/tmp/a/video.info.json"},
			expected: []string{"/tmp/a/video.mp3"},
		},
		{
			name:     "no mp3 falls back to full listing",
			files:    []string{"/tmp/a/video.webm", "/tmp/a/video.m4a"},
			expected: []string{"/tmp/a/video.m4a", "/tmp/a/video.webm"},
		},
		{
			name:    "empty list errors",
			files:   nil,
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := ListAudioFiles(test.files)
			if (err != nil) != test.wantErr {
				t.Fatalf("ListAudioFiles() error = %v, wantErr %v", err, test.wantErr)
			}
			if len(result) != len(test.expected) {
				t.Fatalf("ListAudioFiles() returned %d files, expected %d", len(result), len(test.expected))
			}
			for i := range result {
				if result[i] != test.expected[i] {
					t.Errorf("file %d = %q, expected %q", i, result[i], test.expected[i])
				}
			}
		})
	}
}

func TestIsLikelyFilePath(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"/etc/instruction.txt", true},
		{"notes.md", true},
		{"custom.tmpl", true},
		{"Summarize this as bullet points", false},
		{"single-word", true},
		{"two words here", false},
	}

	for _, test := range tests {
		result := IsLikelyFilePath(test.input)
		if result != test.expected {
			t.Errorf("IsLikelyFilePath(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}
