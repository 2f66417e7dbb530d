package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVisionAPI is a mock for the vision API
type MockVisionAPI struct {
	mock.Mock
}

func (m *MockVisionAPI) TranscribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Error(1)
}

var pngImage = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("fake png payload")...)

func TestClient_ExtractImageText_Success(t *testing.T) {
	mockAPI := new(MockVisionAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	mockAPI.On("TranscribeImage", ctx, pngImage, "image/png").
		Return("AWS Certified Solutions Architect, 2023", nil)

	text, err := client.ExtractImageText(ctx, pngImage)

	assert.NoError(t, err)
	assert.Equal(t, "AWS Certified Solutions Architect, 2023", text)
	mockAPI.AssertExpectations(t)
}

func TestClient_ExtractImageText_EmptyImage(t *testing.T) {
	client := NewClient("test-key")

	text, err := client.ExtractImageText(context.Background(), nil)

	assert.Error(t, err)
	assert.Equal(t, ErrEmptyImage, err)
	assert.Empty(t, text)
}

func TestClient_ExtractImageText_SentinelFiltered(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"exact sentinel", "NO_TEXT"},
		{"lowercase sentinel", "no_text"},
		{"alternate phrasing", "NO_TEXT_FOUND"},
		{"spaced phrasing", "NO TEXT"},
		{"legacy sentinel", "SIN_TEXTO"},
		{"empty response", ""},
		{"whitespace response", "  \n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := new(MockVisionAPI)
			client := &Client{api: mockAPI}

			ctx := context.Background()
			mockAPI.On("TranscribeImage", ctx, pngImage, "image/png").Return(tt.response, nil)

			text, err := client.ExtractImageText(ctx, pngImage)

			assert.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestClient_ExtractImageText_APIError(t *testing.T) {
	mockAPI := new(MockVisionAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	apiErr := errors.New("rate limit exceeded")
	mockAPI.On("TranscribeImage", ctx, pngImage, "image/png").Return("", apiErr)

	text, err := client.ExtractImageText(ctx, pngImage)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Empty(t, text)
	mockAPI.AssertExpectations(t)
}

func TestClient_ExtractImageText_TrimsResponse(t *testing.T) {
	mockAPI := new(MockVisionAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	mockAPI.On("TranscribeImage", ctx, pngImage, "image/png").
		Return("  Scrum Master Certificate  \n", nil)

	text, err := client.ExtractImageText(ctx, pngImage)

	assert.NoError(t, err)
	assert.Equal(t, "Scrum Master Certificate", text)
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key")

	assert.NotNil(t, client)
	assert.NotNil(t, client.api)
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.Equal(t, ErrNoAPIKey, err)
}

func TestSniffMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png signature", pngImage, "image/png"},
		{"jpeg signature", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, "image/jpeg"},
		{"unknown defaults to png", []byte("GIF89a"), "image/png"},
		{"empty defaults to png", nil, "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffMIMEType(tt.data))
		})
	}
}
