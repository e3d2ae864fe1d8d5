package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/piotr-ziolo/SummarizeIt/pkg/errors"
)

func TestSourceDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    SourceDescriptor
		wantErr bool
	}{
		{name: "inline text", desc: InlineText("hello")},
		{name: "blank inline text", desc: InlineText("  \n "), wantErr: true},
		{name: "upload", desc: UploadedFile("talk.mp3", "audio/mpeg", []byte{1, 2, 3})},
		{name: "empty upload", desc: UploadedFile("talk.mp3", "audio/mpeg", nil), wantErr: true},
		{name: "video url", desc: VideoURL("https://youtu.be/dQw4w9WgXcQ")},
		{name: "blank video url", desc: VideoURL("   "), wantErr: true},
		{name: "zero value", desc: SourceDescriptor{}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.desc.Validate()
			if tt.wantErr {
				require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Style
		wantErr bool
	}{
		{name: "empty means paragraph", raw: "", want: StyleParagraph},
		{name: "paragraph", raw: "paragraph", want: StyleParagraph},
		{name: "bullets", raw: "bullets", want: StyleBullets},
		{name: "headline", raw: "headline", want: StyleHeadline},
		{name: "case and whitespace", raw: "  Bullets ", want: StyleBullets},
		{name: "unknown", raw: "sonnet", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStyle(tt.raw)
			if tt.wantErr {
				require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAcquisitionRelease(t *testing.T) {
	released := 0
	acq := NewMediaAcquisition(ContentAudio, "/tmp/x.mp3", func() { released++ })
	acq.Release()
	require.Equal(t, 1, released)

	// Text acquisitions have nothing to free.
	NewTextAcquisition("hello").Release()
}
