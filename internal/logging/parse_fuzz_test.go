package logging

import "testing"

func FuzzParseLevel(f *testing.F) {
	seeds := []string{"info", "warn", "warning", "error", "debug", "", "???", "INFO", " Debug "}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		level, ok := ParseLevel(raw)
		if !ok {
			if level != "" {
				t.Fatalf("rejected %q but returned level %q", raw, level)
			}
			return
		}
		switch level {
		case LevelDebug, LevelInfo, LevelWarning, LevelError:
		default:
			t.Fatalf("accepted %q as unknown level %q", raw, level)
		}
	})
}
