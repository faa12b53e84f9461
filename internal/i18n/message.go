package i18n

// Message 待翻译的消息（key + 参数），用于在服务层产出、在接口层按语言渲染
type Message struct {
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
	Text string   `json:"text,omitempty"` // 渲染结果，仅在返回给客户端前填充
}

// NewMessage 创建消息
func NewMessage(key string, args ...string) Message {
	return Message{Key: key, Args: args}
}

// Render 按语言渲染消息
func (m Message) Render(locale string) string {
	if len(m.Args) == 0 {
		return T(locale, m.Key)
	}
	args := make([]interface{}, len(m.Args))
	for i, arg := range m.Args {
		args[i] = arg
	}
	return Tf(locale, m.Key, args...)
}

// String 默认语言渲染
func (m Message) String() string {
	return m.Render(DefaultLocale)
}

// Localized 返回填充了渲染文本的副本
func (m Message) Localized(locale string) Message {
	m.Text = m.Render(locale)
	return m
}

// LocalizeAll 批量渲染
func LocalizeAll(messages []Message, locale string) []Message {
	if len(messages) == 0 {
		return messages
	}
	out := make([]Message, len(messages))
	for i, msg := range messages {
		out[i] = msg.Localized(locale)
	}
	return out
}
