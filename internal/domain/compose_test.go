package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeComposeInput(t *testing.T) {
	t.Run("四个字段齐全", func(t *testing.T) {
		input, err := DecodeComposeInput([]byte(`{"to-name":"A","to-email":"a@x.com","subject":"S","content":"C"}`))
		require.NoError(t, err)
		assert.Equal(t, ComposeInput{ToName: "A", ToEmail: "a@x.com", Subject: "S", Content: "C"}, input)
	})

	tests := []struct {
		name string
		body string
	}{
		{"多出字段", `{"to-name":"A","to-email":"a@x.com","subject":"S","content":"C","unexpected":"x"}`},
		{"缺少 content", `{"to-name":"A","to-email":"a@x.com","subject":"S"}`},
		{"缺少 to-name", `{"to-email":"a@x.com","subject":"S","content":"C"}`},
		{"空字符串", `{"to-name":"","to-email":"a@x.com","subject":"S","content":"C"}`},
		{"类型错误", `{"to-name":1,"to-email":"a@x.com","subject":"S","content":"C"}`},
		{"不是对象", `["to-name"]`},
		{"null", `null`},
		{"非法 JSON", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeComposeInput([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err))
			assert.ErrorIs(t, err, ErrInvalidEmail)
		})
	}
}

func TestComposeInput_Validate(t *testing.T) {
	assert.NoError(t, ComposeInput{ToName: "A", ToEmail: "a@x.com", Subject: "S", Content: "C"}.Validate())
	assert.ErrorIs(t, ComposeInput{ToName: "A", ToEmail: "a@x.com", Subject: "S"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, ComposeInput{}.Validate(), ErrInvalidInput)
}
