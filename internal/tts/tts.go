// Package tts wraps Google Cloud Text-to-Speech.
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// Voice selects the speaker and output of a synthesis request.
type Voice struct {
	LanguageCode string
	Name         string
	Male         bool
	SpeakingRate float64
	// Encoding is "mp3" or "linear16".
	Encoding string
}

// Ext is the file extension matching the voice's encoding.
func (v Voice) Ext() string {
	if strings.EqualFold(v.Encoding, "linear16") {
		return ".wav"
	}
	return ".mp3"
}

type Google struct {
	client *texttospeech.Client
}

// NewGoogle builds a client from a service account JSON document.
func NewGoogle(ctx context.Context, credentialsJSON []byte) (*Google, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("tts: empty credentials")
	}
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("tts: create client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Close() error { return g.client.Close() }

func (g *Google) Synthesize(ctx context.Context, text string, v Voice) ([]byte, error) {
	gender := texttospeechpb.SsmlVoiceGender_FEMALE
	if v.Male {
		gender = texttospeechpb.SsmlVoiceGender_MALE
	}
	encoding := texttospeechpb.AudioEncoding_MP3
	if strings.EqualFold(v.Encoding, "linear16") {
		encoding = texttospeechpb.AudioEncoding_LINEAR16
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: v.LanguageCode,
			Name:         v.Name,
			SsmlGender:   gender,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: encoding,
			SpeakingRate:  v.SpeakingRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tts: synthesize: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, errors.New("tts: empty audio content")
	}
	return resp.GetAudioContent(), nil
}
