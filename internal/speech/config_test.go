package speech

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/clipspeak/internal/domain"
)

func TestVoiceFor(t *testing.T) {
	if v := VoiceFor(domain.ModeJapanese); !strings.Contains(v, "ja-JP") {
		t.Fatalf("japanese mode voice = %q", v)
	}
	if v := VoiceFor(domain.ModeEnglish); !strings.Contains(v, "en-AU") {
		t.Fatalf("english mode voice = %q", v)
	}
	if VoiceFor(domain.ModeJapanese) != VoiceFor(domain.ModeJapanese) {
		t.Fatal("voice selection is not deterministic")
	}
}

func TestEndpoints(t *testing.T) {
	if got := TokenURL(DefaultRegion); got != "https://australiaeast.api.cognitive.microsoft.com/sts/v1.0/issuetoken" {
		t.Fatalf("token url = %s", got)
	}
	if got := SynthesisURL(DefaultRegion); got != "https://australiaeast.tts.speech.microsoft.com/cognitiveservices/v1" {
		t.Fatalf("synthesis url = %s", got)
	}
}

func TestSampleRateForFormat(t *testing.T) {
	rate, err := SampleRateForFormat(DefaultAudioFormat)
	if err != nil {
		t.Fatalf("default format: %v", err)
	}
	if rate != 16000 {
		t.Fatalf("expected 16000, got %d", rate)
	}

	rate, err = SampleRateForFormat("audio-24khz-96kbitrate-mono-mp3")
	if err != nil || rate != 24000 {
		t.Fatalf("expected 24000, got %d (%v)", rate, err)
	}

	if _, err := SampleRateForFormat("riff-24khz-16bit-mono-pcm"); err == nil {
		t.Fatal("expected error for non-mp3 format")
	}
}
