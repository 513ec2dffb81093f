// Package slack delivers scan digests to Slack.
//
// 발신은 incoming webhook (webhook.go), 수신은 Socket Mode 슬래시
// 명령 (socketmode.go). Block Kit 페이로드 구성은 여기서 담당한다.
package slack

// TextObject is a Block Kit text element
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is a single Block Kit layout block
type Block struct {
	Type string      `json:"type"`
	Text *TextObject `json:"text,omitempty"`
}

// SectionBlock builds a mrkdwn section block
func SectionBlock(text string) Block {
	return Block{
		Type: "section",
		Text: &TextObject{Type: "mrkdwn", Text: text},
	}
}

// DividerBlock builds a divider block
func DividerBlock() Block {
	return Block{Type: "divider"}
}
