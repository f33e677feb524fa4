package domain

import (
	"encoding/json"
	"fmt"
)

// 撰写请求的字段名
const (
	FieldToName  = "to-name"
	FieldToEmail = "to-email"
	FieldSubject = "subject"
	FieldContent = "content"
)

var composeFields = []string{FieldToName, FieldToEmail, FieldSubject, FieldContent}

// ComposeInput 定义撰写邮件所需的四个字段。
type ComposeInput struct {
	ToName  string
	ToEmail string
	Subject string
	Content string
}

// DecodeComposeInput 解析撰写请求体
//
// 请求体必须是恰好包含 to-name、to-email、subject、content 四个字符串字段的 JSON 对象，
// 缺少字段、多出字段、类型不符或值为空都返回 ErrInvalidEmail。
func DecodeComposeInput(body []byte) (ComposeInput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ComposeInput{}, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}

	for key := range fields {
		if !isComposeField(key) {
			return ComposeInput{}, fmt.Errorf("%w: unexpected property %q", ErrInvalidEmail, key)
		}
	}

	values := make(map[string]string, len(composeFields))
	for _, key := range composeFields {
		raw, ok := fields[key]
		if !ok {
			return ComposeInput{}, fmt.Errorf("%w: missing property %q", ErrInvalidEmail, key)
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return ComposeInput{}, fmt.Errorf("%w: property %q must be a string", ErrInvalidEmail, key)
		}
		values[key] = value
	}

	input := ComposeInput{
		ToName:  values[FieldToName],
		ToEmail: values[FieldToEmail],
		Subject: values[FieldSubject],
		Content: values[FieldContent],
	}
	return input, input.Validate()
}

// Validate 检查四个字段均非空。
func (in ComposeInput) Validate() error {
	checks := []struct {
		name  string
		value string
	}{
		{FieldToName, in.ToName},
		{FieldToEmail, in.ToEmail},
		{FieldSubject, in.Subject},
		{FieldContent, in.Content},
	}
	for _, c := range checks {
		if c.value == "" {
			return fmt.Errorf("%w: property %q must not be empty", ErrInvalidEmail, c.name)
		}
	}
	return nil
}

func isComposeField(key string) bool {
	for _, f := range composeFields {
		if f == key {
			return true
		}
	}
	return false
}
