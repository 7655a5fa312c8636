package authcode

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_authcode "github.com/oshokin/extranet-bot/internal/service/authcode/mocks"
)

// TestNewProvider tests the NewProvider function.
func TestNewProvider(t *testing.T) {
	t.Parallel()

	p := NewProvider("  ", nil)
	assert.False(t, p.HasSecret())
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)

	p = NewProvider(rfc6238Secret, nil, WithMaxAttempts(5))
	assert.True(t, p.HasSecret())
	assert.Equal(t, 5, p.maxAttempts)

	p = NewProvider("", nil, WithMaxAttempts(0))
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)

	assert.Implements(t, (*Provider)(nil), p)
}

// TestObtainCode_WithSecret tests that a configured secret never reaches the operator.
func TestObtainCode_WithSecret(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any Prompt call fails the test.
	input := mock_authcode.NewMockInteractiveInput(ctrl)

	p := NewProvider(rfc6238Secret, input)

	code, err := p.ObtainCode(context.Background(), time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

// TestObtainCode_InvalidSecret tests that a broken secret fails instead of falling back to manual entry.
func TestObtainCode_InvalidSecret(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := mock_authcode.NewMockInteractiveInput(ctrl)

	p := NewProvider("not base32 at all 1", input)

	code, err := p.ObtainCode(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrInvalidSecret)
	assert.Empty(t, code)
}

// TestObtainCode_WithoutSecret tests that the operator is asked when no secret is configured.
func TestObtainCode_WithoutSecret(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := mock_authcode.NewMockInteractiveInput(ctrl)
	input.EXPECT().Prompt(gomock.Any(), PromptMessage).Return(" 012345 \n", nil).Times(1)

	p := NewProvider("", input)

	code, err := p.ObtainCode(context.Background(), time.Unix(59, 0))
	require.NoError(t, err)
	// The typed code is relayed untouched, not replaced by a generated one.
	assert.Equal(t, "012345", code)
}

// TestRequestCodeInteractively_Retries tests the bounded re-prompting on malformed input.
func TestRequestCodeInteractively_Retries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		answers     []string
		expected    string
		expectError error
	}{
		{
			name:     "valid on first attempt",
			answers:  []string{"123456"},
			expected: "123456",
		},
		{
			name:     "valid on last attempt",
			answers:  []string{"12a456", "12345", "654321"},
			expected: "654321",
		},
		{
			name:        "three malformed answers",
			answers:     []string{"12a456", "12345", "1234567"},
			expectError: ErrOperatorInput,
		},
		{
			name:        "signs and spaces inside are rejected",
			answers:     []string{"+12345", "123 456", "-12345"},
			expectError: ErrOperatorInput,
		},
		{
			name:        "non-ASCII digits are rejected",
			answers:     []string{"１２３４５６", "١٢٣٤٥٦", ""},
			expectError: ErrOperatorInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			input := mock_authcode.NewMockInteractiveInput(ctrl)

			calls := make([]any, 0, len(tt.answers))
			for _, answer := range tt.answers {
				calls = append(calls, input.EXPECT().Prompt(gomock.Any(), PromptMessage).Return(answer, nil))
			}

			gomock.InOrder(calls...)

			p := NewProvider("", input)

			code, err := p.RequestCodeInteractively(context.Background(), input)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, code)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

// TestRequestCodeInteractively_Timeout tests that a caller deadline aborts the wait with ErrTimeout.
func TestRequestCodeInteractively_Timeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := mock_authcode.NewMockInteractiveInput(ctrl)
	input.EXPECT().
		Prompt(gomock.Any(), PromptMessage).
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()

			return "", ctx.Err()
		}).
		Times(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewProvider("", input)

	code, err := p.ObtainCode(ctx, time.Now())
	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, code)
}

// TestRequestCodeInteractively_PromptErrors tests how input failures are classified.
func TestRequestCodeInteractively_PromptErrors(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("terminal is broken")

	tests := []struct {
		name        string
		promptErr   error
		expectError error
	}{
		{name: "cancelled", promptErr: context.Canceled, expectError: context.Canceled},
		{name: "input closed", promptErr: io.EOF, expectError: ErrOperatorInput},
		{name: "other failure", promptErr: errBroken, expectError: errBroken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			input := mock_authcode.NewMockInteractiveInput(ctrl)
			input.EXPECT().Prompt(gomock.Any(), gomock.Any()).Return("", tt.promptErr).Times(1)

			p := NewProvider("", input)

			_, err := p.RequestCodeInteractively(context.Background(), input)
			require.ErrorIs(t, err, tt.expectError)
			assert.NotErrorIs(t, err, ErrTimeout)
		})
	}
}

// TestRequestCodeInteractively_NilInput tests that a missing input channel is reported.
func TestRequestCodeInteractively_NilInput(t *testing.T) {
	t.Parallel()

	p := NewProvider("", nil)

	_, err := p.ObtainCode(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrOperatorInput)
}

// TestIsValidCode tests the IsValidCode function.
func TestIsValidCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		valid bool
	}{
		{"000000", true},
		{"123456", true},
		{"12a456", false},
		{"12345", false},
		{"1234567", false},
		{"", false},
		{" 12345", false},
	}

	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.valid, IsValidCode(tt.code), "code %q", tt.code)
	}
}
