package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mpilhlt/v2v-api/internal/models"
	"github.com/mpilhlt/v2v-api/internal/paramstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	val   string
	err   error
	calls int
}

func (f *fakeGetter) GetParameter(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.val, f.err
}

func withParamGetter(t *testing.T, g paramstore.Getter, err error) {
	t.Helper()
	orig := newParamGetter
	newParamGetter = func(context.Context) (paramstore.Getter, error) { return g, err }
	t.Cleanup(func() { newParamGetter = orig })
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestResolveProviderKey(t *testing.T) {
	tests := []struct {
		name    string
		options models.Options
		env     string
		getter  *fakeGetter
		want    string
		calls   int
	}{
		{
			name:    "Option wins",
			options: models.Options{ProviderKey: " sk-flag ", ProviderKeyParam: "/v2v/key"},
			env:     "sk-env",
			getter:  &fakeGetter{val: "sk-ssm"},
			want:    "sk-flag",
		},
		{
			name:    "Environment fallback",
			options: models.Options{ProviderKeyParam: "/v2v/key"},
			env:     "sk-env",
			getter:  &fakeGetter{val: "sk-ssm"},
			want:    "sk-env",
		},
		{
			name:    "Parameter store fallback",
			options: models.Options{ProviderKeyParam: "/v2v/key"},
			getter:  &fakeGetter{val: `{"token":"sk-ssm"}`},
			want:    "sk-ssm",
			calls:   1,
		},
		{
			name:    "Parameter store error",
			options: models.Options{ProviderKeyParam: "/v2v/key"},
			getter:  &fakeGetter{err: errors.New("access denied")},
			want:    "",
			calls:   1,
		},
		{
			name:    "Nothing configured",
			options: models.Options{},
			getter:  &fakeGetter{val: "sk-ssm"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.env)
			withParamGetter(t, tt.getter, nil)

			got := resolveProviderKey(context.Background(), &tt.options, discard)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.calls, tt.getter.calls)
		})
	}
}

func TestResolveProviderKey_ClientError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	withParamGetter(t, nil, errors.New("no credentials"))

	got := resolveProviderKey(context.Background(), &models.Options{ProviderKeyParam: "/v2v/key"}, discard)
	assert.Equal(t, "", got)
}

func TestNewGateway(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	gateway, err := newGateway(context.Background(), &models.Options{Model: "gpt-3.5-turbo"}, discard)
	require.NoError(t, err)
	assert.False(t, gateway.Configured())

	gateway, err = newGateway(context.Background(), &models.Options{Model: "gpt-3.5-turbo", ProviderKey: "sk-test"}, discard)
	require.NoError(t, err)
	assert.True(t, gateway.Configured())
	assert.Equal(t, "gpt-3.5-turbo", gateway.Model())

	_, err = newGateway(context.Background(), &models.Options{ProviderKey: "sk-test"}, discard)
	assert.Error(t, err, "model is required")
}
