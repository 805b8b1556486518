// Package speech talks to Azure text-to-speech and plays the returned MP3
// audio on the default output device.
package speech

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/hammamikhairi/clipspeak/internal/domain"
)

// Voices used for each mode.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const (
	JapaneseVoice = "Microsoft Server Speech Text to Speech Voice (ja-JP, KeitaNeural)"
	EnglishVoice  = "Microsoft Server Speech Text to Speech Voice (en-AU, NatashaNeural)"
)

// Audio format requested from Azure and decoded by the player.
const DefaultAudioFormat = "audio-16khz-64kbitrate-mono-mp3"

// DefaultRegion is the Azure region hosting the speech resource.
const DefaultRegion = "australiaeast"

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// ChannelCount is the PCM channel count produced by the MP3 decoder.
// go-mp3 always emits 16-bit little-endian stereo, even for mono input.
const ChannelCount = 2

// VoiceFor returns the voice name used in the given mode.
func VoiceFor(mode domain.Mode) string {
	if mode == domain.ModeEnglish {
		return EnglishVoice
	}
	return JapaneseVoice
}

// TokenURL returns the token issuance endpoint for a region.
func TokenURL(region string) string {
	return fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issuetoken", region)
}

// SynthesisURL returns the text-to-speech endpoint for a region.
func SynthesisURL(region string) string {
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
}

var formatRate = regexp.MustCompile(`^audio-(\d+)khz-.*-mp3$`)

// SampleRateForFormat extracts the sample rate from an Azure MP3 output
// format name such as "audio-24khz-96kbitrate-mono-mp3".
func SampleRateForFormat(format string) (int, error) {
	m := formatRate.FindStringSubmatch(format)
	if m == nil {
		return 0, fmt.Errorf("unsupported output format %q (need an audio-*khz-*-mp3 format)", format)
	}
	khz, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing sample rate in %q: %w", format, err)
	}
	return khz * 1000, nil
}
