package feishu

// InteractiveCard 飞书交互式消息卡片
type InteractiveCard struct {
	Config   *CardConfig   `json:"config,omitempty"`
	Header   *CardHeader   `json:"header,omitempty"`
	Elements []CardElement `json:"elements,omitempty"`
}

// CardConfig 卡片配置
type CardConfig struct {
	WideScreenMode bool `json:"wide_screen_mode"`
}

// CardHeader 卡片标题，Template 为颜色：blue/green/red/orange
type CardHeader struct {
	Title    CardText `json:"title"`
	Template string   `json:"template,omitempty"`
}

// CardText 卡片文本，Tag 为 plain_text / lark_md
type CardText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// CardElement 卡片元素
type CardElement struct {
	Tag      string        `json:"tag"`
	Text     *CardText     `json:"text,omitempty"`
	Fields   []CardField   `json:"fields,omitempty"`
	Elements []CardElement `json:"elements,omitempty"`
	Content  string        `json:"content,omitempty"`
}

// CardField 卡片字段
type CardField struct {
	IsShort bool     `json:"is_short"`
	Text    CardText `json:"text"`
}

// Field 一行 "**label**\nvalue" 形式的短字段
func Field(label, value string) CardField {
	return CardField{
		IsShort: true,
		Text:    CardText{Tag: "lark_md", Content: "**" + label + "**\n" + value},
	}
}

// NewNoticeCard 通用通知卡片：标题 + 字段 + 底部备注
func NewNoticeCard(title, template string, fields []CardField, note string) InteractiveCard {
	card := InteractiveCard{
		Config: &CardConfig{WideScreenMode: true},
		Header: &CardHeader{
			Title:    CardText{Tag: "plain_text", Content: title},
			Template: template,
		},
		Elements: []CardElement{
			{Tag: "div", Fields: fields},
		},
	}
	if note != "" {
		card.Elements = append(card.Elements,
			CardElement{Tag: "hr"},
			CardElement{Tag: "note", Elements: []CardElement{
				{Tag: "plain_text", Content: note},
			}},
		)
	}
	return card
}
