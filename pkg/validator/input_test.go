package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Age      int      `json:"age"`
	Tags     []string `json:"tags"`
	Password string   `json:"-"`
	Nickname string
	internal string
}

// TestDataFromStruct 测试结构体转为待验证数据
func TestDataFromStruct(t *testing.T) {
	form := &signupForm{Username: "alice", Age: 30, Tags: []string{"go"}, Password: "secret", Nickname: "A", internal: "x"}

	tests := []struct {
		name    string
		source  any
		want    map[string]any
		wantErr bool
	}{
		{
			name:   "结构体指针",
			source: form,
			want: map[string]any{
				"username": "alice",
				"email":    "",
				"age":      30,
				"tags":     []string{"go"},
				"Nickname": "A",
			},
		},
		{
			name:   "map 按 JSON 转换",
			source: map[string]int{"age": 3},
			want:   map[string]any{"age": float64(3)},
		},
		{name: "nil", source: nil, wantErr: true},
		{name: "nil 指针", source: (*signupForm)(nil), wantErr: true},
		{name: "不是对象", source: []int{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DataFromStruct(tt.source)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestValidator_SetStruct 测试用结构体数据验证
func TestValidator_SetStruct(t *testing.T) {
	v := New(nil)
	require.NoError(t, v.AddRules(
		FieldRule{Field: "username", Rule: []any{"minlength", 3}},
		FieldRule{Field: "email", Rule: "required"},
		FieldRule{Field: "Password", Rule: "required"},
	))
	require.NoError(t, v.SetStruct(signupForm{Username: "alice", Password: "secret"}))

	ok, err := v.CheckAll()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"email", "Password"}, v.Messages().Fields())
}
